package knowledge

import "strings"

// NoExamplesFound is returned by Search when no topic matches the query.
const NoExamplesFound = "No examples found"

// Entry pairs a topic phrase with its registered example commands.
type Entry struct {
	Topic    string
	Examples []string
}

// Base is a static topic -> example-commands lookup table. Entries keep
// their registration order, which is part of the Search contract, so the
// table is a slice rather than a map. A Base is immutable after
// construction and safe for concurrent readers.
type Base struct {
	entries []Entry
}

// New builds a Base from the given entries, preserving their order.
func New(entries ...Entry) *Base {
	b := &Base{entries: make([]Entry, len(entries))}
	copy(b.entries, entries)
	return b
}

// Len returns the number of registered topics.
func (b *Base) Len() int {
	return len(b.entries)
}

// Topics returns the registered topic phrases in registration order.
func (b *Base) Topics() []string {
	topics := make([]string, len(b.entries))
	for i, e := range b.entries {
		topics[i] = e.Topic
	}
	return topics
}

// Search splits the query on whitespace and collects the examples of every
// entry whose topic phrase contains any query word as a case-insensitive
// substring. Matched entries contribute all their examples in registration
// order; overlapping matches may yield duplicates. Returns the
// newline-joined examples, or NoExamplesFound when nothing matched.
func (b *Base) Search(query string) string {
	words := strings.Fields(query)

	var relevant []string
	for _, entry := range b.entries {
		topic := strings.ToLower(entry.Topic)
		for _, word := range words {
			if strings.Contains(topic, strings.ToLower(word)) {
				relevant = append(relevant, entry.Examples...)
				break
			}
		}
	}

	if len(relevant) == 0 {
		return NoExamplesFound
	}
	return strings.Join(relevant, "\n")
}

// Default returns the built-in AWS CLI knowledge base.
func Default() *Base {
	return New(
		Entry{
			Topic: "list ec2 instances",
			Examples: []string{
				"aws ec2 describe-instances",
				"aws ec2 describe-instances --filters Name=instance-state-name,Values=running",
			},
		},
		Entry{
			Topic: "create s3 bucket",
			Examples: []string{
				"aws s3 mb s3://bucket-name",
				"aws s3api create-bucket --bucket bucket-name --region region-name",
			},
		},
		Entry{
			Topic: "list s3 buckets",
			Examples: []string{
				"aws s3 ls",
				"aws s3api list-buckets --query Buckets[].Name",
			},
		},
		Entry{
			Topic: "describe security groups",
			Examples: []string{
				"aws ec2 describe-security-groups",
				"aws ec2 describe-security-groups --group-ids sg-12345678",
			},
		},
		Entry{
			Topic: "list lambda functions",
			Examples: []string{
				"aws lambda list-functions",
				"aws lambda list-functions --region us-east-1",
			},
		},
		Entry{
			Topic: "list iam users",
			Examples: []string{
				"aws iam list-users",
				"aws iam list-users --query Users[].UserName",
			},
		},
	)
}
