package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func writePartition(t *testing.T, dir, name string, lines ...string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func addLine(id, at, title string) string {
	return fmt.Sprintf(`{"event_time":%q,"action":"add","paper_id":%q,"paper":{"id":%q,"title":%q}}`, at, id, id, title)
}

func removeLine(id, at string) string {
	return fmt.Sprintf(`{"event_time":%q,"action":"remove","paper_id":%q}`, at, id)
}

func TestProjector_MissingRootIsEmpty(t *testing.T) {
	projector := NewProjector(filepath.Join(t.TempDir(), "does-not-exist"))

	papers, err := projector.Project()
	if err != nil {
		t.Fatalf("Missing root must not be an error, got %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("Expected empty projection, got %d papers", len(papers))
	}
}

func TestProjector_EmptyRootIsEmpty(t *testing.T) {
	papers, err := NewProjector(t.TempDir()).Project()
	if err != nil {
		t.Fatalf("Empty root must not be an error, got %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("Expected empty projection, got %d papers", len(papers))
	}
}

func TestProjector_LastWriteWinsAcrossPartitions(t *testing.T) {
	dir := t.TempDir()

	// The later event sits in the earlier-named partition, so scan order
	// disagrees with event-time order. Logical time must decide the winner.
	writePartition(t, dir, "2024-03-01.jsonl",
		removeLine("p1", "2024-03-05T10:00:00Z"))
	writePartition(t, dir, "2024-03-02.jsonl",
		addLine("p1", "2024-03-02T10:00:00Z", "Stale add"))

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 0 {
		t.Errorf("The later remove must win regardless of scan order, got %d papers", len(papers))
	}
}

func TestProjector_OrderingAcrossPartitions(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T09:00:00Z", "First"),
		addLine("p2", "2024-03-01T12:00:00Z", "Second"))
	writePartition(t, dir, "2024-03-02.jsonl",
		addLine("p3", "2024-03-02T09:00:00Z", "Third"))

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 3 {
		t.Fatalf("Expected 3 papers, got %d", len(papers))
	}

	expected := []string{"p3", "p2", "p1"}
	for i, id := range expected {
		if papers[i]["id"] != id {
			t.Errorf("Position %d: expected %s, got %v", i, id, papers[i]["id"])
		}
	}
}

func TestProjector_MalformedLinesTolerated(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		`{this is not json`,
		"",
		addLine("p1", "2024-03-01T10:00:00Z", "Survivor"),
		`{"event_time": 42, "action": ["nope"]}`)

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatalf("Malformed lines must not fail the projection, got %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("Expected only the valid record, got %d papers", len(papers))
	}
	if papers[0]["title"] != "Survivor" {
		t.Errorf("Expected the valid record's snapshot, got %v", papers[0]["title"])
	}
}

func TestProjector_OversizedRecordDoesNotAbortScan(t *testing.T) {
	dir := t.TempDir()

	// A valid record well past any scanner buffer, followed by a normal one.
	// Both must survive and later records in the partition must not be lost.
	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T10:00:00Z", strings.Repeat("long summary ", 200_000)),
		addLine("p2", "2024-03-01T11:00:00Z", "Small"))

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatalf("Oversized record must not fail the projection, got %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("Expected both records, got %d papers", len(papers))
	}
	if papers[0]["id"] != "p2" || papers[1]["id"] != "p1" {
		t.Errorf("Unexpected order: [%v, %v]", papers[0]["id"], papers[1]["id"])
	}
	if len(papers[1]["title"].(string)) < 1<<20 {
		t.Error("Expected the oversized snapshot to be preserved in full")
	}
}

func TestProjector_SkippedRecordsCounted(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		`{not json at all`,
		addLine("p1", "2024-03-01T10:00:00Z", "Valid"),
		`"also not an event object"`)

	before := testutil.ToFloat64(skippedRecords)

	if _, err := NewProjector(dir).Project(); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(skippedRecords) - before; got != 2 {
		t.Errorf("Expected 2 skipped records counted, got %v", got)
	}
}

func TestProjector_RemoveThenReAdd(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T10:00:00Z", "Original"),
		removeLine("p1", "2024-03-01T11:00:00Z"))
	writePartition(t, dir, "2024-03-02.jsonl",
		addLine("p1", "2024-03-02T10:00:00Z", "Back again"))

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("Expected the re-added paper, got %d papers", len(papers))
	}
	if papers[0]["title"] != "Back again" {
		t.Errorf("Expected the re-added snapshot, got %v", papers[0]["title"])
	}
}

func TestProjector_DoubleRemoveNoError(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T10:00:00Z", "Paper"),
		removeLine("p1", "2024-03-01T11:00:00Z"),
		removeLine("p1", "2024-03-01T12:00:00Z"))

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatalf("Double remove must not error, got %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("Expected empty projection, got %d papers", len(papers))
	}
}

func TestProjector_IgnoresNonPartitionFiles(t *testing.T) {
	dir := t.TempDir()

	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T10:00:00Z", "Paper"))
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a partition"), 0o644); err != nil {
		t.Fatal(err)
	}

	papers, err := NewProjector(dir).Project()
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Errorf("Expected 1 paper, got %d", len(papers))
	}
}

func TestProjector_UnreadablePartitionIsStorageError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := t.TempDir()
	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("p1", "2024-03-01T10:00:00Z", "Paper"))
	if err := os.Chmod(filepath.Join(dir, "2024-03-01.jsonl"), 0o000); err != nil {
		t.Fatal(err)
	}

	_, err := NewProjector(dir).Project()

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError for an unreadable partition, got %v", err)
	}
}

func TestProjector_DeterministicAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	at := "2024-03-01T10:00:00Z"
	writePartition(t, dir, "2024-03-01.jsonl",
		addLine("zzz", at, "Z"),
		addLine("mmm", at, "M"),
		addLine("aaa", at, "A"))

	projector := NewProjector(dir)

	first, err := projector.Project()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := projector.Project()
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if first[j]["id"] != again[j]["id"] {
				t.Fatalf("Projection order changed between invocations: %v vs %v", first[j]["id"], again[j]["id"])
			}
		}
	}
}
