// Command admin-token mints a bearer token for the /admin routes, signed with
// the same ADMIN_JWT_* settings the server reads.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "finai/internal/jwt_token"
	"finai/internal/platform/config"
)

func main() {
	subject := flag.String("subject", "", "operator identity recorded as the token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "admin-token: -subject is required")
		os.Exit(2)
	}

	cfg := config.FromEnv()
	if cfg.UsesDevSigningKey() {
		fmt.Fprintln(os.Stderr, "admin-token: warning: signing with the development key")
	}

	svc := jwttoken.NewJWTService(cfg.Admin.JWTSigningKey, cfg.Admin.Issuer, cfg.Admin.Audience)
	token, err := svc.GenerateAdminToken(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin-token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
