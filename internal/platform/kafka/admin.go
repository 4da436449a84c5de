// Package kafka holds broker administration helpers shared by the producer
// and consumer packages.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicSpec describes a topic to create at startup.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// EnsureTopics creates any missing topics. Topics that already exist are left
// untouched, including their partition count.
func EnsureTopics(ctx context.Context, client *kgo.Client, topics ...TopicSpec) error {
	adm := kadm.NewClient(client)
	for _, t := range topics {
		partitions := t.Partitions
		if partitions <= 0 {
			partitions = 1
		}
		replication := t.ReplicationFactor
		if replication <= 0 {
			replication = 1
		}

		resp, err := adm.CreateTopic(ctx, partitions, replication, nil, t.Name)
		if err != nil {
			return fmt.Errorf("create topic %s: %w", t.Name, err)
		}
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Name, resp.Err)
		}
	}
	return nil
}
