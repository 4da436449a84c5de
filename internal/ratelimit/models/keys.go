package models

// IPKey builds the bucket key for a client IP within an endpoint class.
func IPKey(class EndpointClass, ip string) string {
	return "ratelimit:ip:" + string(class) + ":" + ip
}
