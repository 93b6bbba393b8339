package memory

import "fmt"

// Namespace builders for the fixed store layout. Namespaces partition per
// user; keys within classification namespaces are taxonomy-id scoped.

// ClassificationsNamespace holds reconciled candidate classifications.
func ClassificationsNamespace(userID string) string {
	return fmt.Sprintf("users/%s/classifications", userID)
}

// EvidenceNamespace holds evidence references for one taxonomy entry.
func EvidenceNamespace(userID string, taxonomyID int) string {
	return fmt.Sprintf("users/%s/evidence/%d", userID, taxonomyID)
}

// InboxNamespace holds ingested evidence items awaiting analysis.
func InboxNamespace(userID string) string {
	return fmt.Sprintf("users/%s/inbox", userID)
}

// ProfileNamespace holds the assembled profile snapshot.
func ProfileNamespace(userID string) string {
	return fmt.Sprintf("users/%s/profile", userID)
}

// ClassificationKey is the store key for one taxonomy classification.
func ClassificationKey(taxonomyID int) string {
	return fmt.Sprintf("taxonomy_%d", taxonomyID)
}
