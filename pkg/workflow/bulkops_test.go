package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/workflow"
)

func startBulk(t *testing.T, e *workflow.Engine) string {
	t.Helper()
	ctx := context.Background()

	session, err := e.Start(ctx, "hr-ops")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.SelectTemplate(ctx, session.ID, "tpl-basic"); err != nil {
		t.Fatalf("select template: %v", err)
	}
	if _, err := e.ChooseInputMethod(ctx, session.ID, letter.InputBulk); err != nil {
		t.Fatalf("choose bulk: %v", err)
	}
	return session.ID
}

func bulkRow(name string) map[string]string {
	return map[string]string{
		"Employee Name":   name,
		"Designation":     "Staff Engineer",
		"Date of Joining": "2024-12-01",
		"CTC":             "1200000",
	}
}

func TestSubmitBulkGeneratesOneArtifactPerRow(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	sessionID := startBulk(t, e)

	// The optional department column is absent: warning only.
	result, err := e.SubmitBulk(ctx, sessionID,
		[]map[string]string{bulkRow("Asha Rao"), bulkRow("Ravi Kumar")}, "print")
	if err != nil {
		t.Fatalf("submit bulk: %v", err)
	}
	if result.Rejected() {
		t.Fatalf("batch rejected: %+v", result.Missing)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Field != "department" {
		t.Fatalf("expected one department warning, got %+v", result.Warnings)
	}
	if len(result.RowErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", result.RowErrors)
	}
	if len(result.ArtifactIDs) != 2 {
		t.Fatalf("expected two artifacts, got %d", len(result.ArtifactIDs))
	}

	for i, want := range []string{"Asha Rao", "Ravi Kumar"} {
		recipient, err := e.Recipient(ctx, result.ArtifactIDs[i])
		if err != nil {
			t.Fatalf("decrypt recipient: %v", err)
		}
		if recipient != want {
			t.Errorf("artifact %d recipient %q, want %q", i, recipient, want)
		}
	}

	session, _ := e.Session(ctx, sessionID)
	if session.State != letter.StateComplete {
		t.Errorf("bulk completion must finish the session, state %s", session.State)
	}
}

func TestSubmitBulkMissingRequiredColumnRejectsBatch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	sessionID := startBulk(t, e)

	rows := []map[string]string{{
		"Designation":     "Staff Engineer",
		"Date of Joining": "2024-12-01",
		"CTC":             "1200000",
	}}

	result, err := e.SubmitBulk(ctx, sessionID, rows, "print")
	if err != nil {
		t.Fatalf("submit bulk: %v", err)
	}
	if !result.Rejected() {
		t.Fatal("missing required column must reject the batch")
	}
	if result.Missing[0].Field != "employee_name" || result.Missing[0].Hint == "" {
		t.Fatalf("hard error must name the field with a hint: %+v", result.Missing[0])
	}
	if len(result.ArtifactIDs) != 0 {
		t.Fatal("rejected batch must not render anything")
	}

	session, _ := e.Session(ctx, sessionID)
	if session.State != letter.StateCollectingBulk {
		t.Errorf("rejected batch must leave the session collecting, state %s", session.State)
	}
}

func TestSubmitBulkRowFailureDoesNotAbortBatch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	sessionID := startBulk(t, e)

	bad := bulkRow("Ravi Kumar")
	bad["CTC"] = "-500"

	result, err := e.SubmitBulk(ctx, sessionID,
		[]map[string]string{bulkRow("Asha Rao"), bad, bulkRow("Meera Nair")}, "print")
	if err != nil {
		t.Fatalf("submit bulk: %v", err)
	}
	if result.Rejected() {
		t.Fatalf("value failures must not reject the batch: %+v", result.Missing)
	}
	if len(result.RowErrors) != 1 || result.RowErrors[0].Row != 2 {
		t.Fatalf("expected one error on row 2, got %+v", result.RowErrors)
	}
	if !strings.Contains(result.RowErrors[0].Message, "positive") {
		t.Errorf("unexpected row error message: %q", result.RowErrors[0].Message)
	}
	if len(result.ArtifactIDs) != 2 {
		t.Fatalf("valid rows must still render, got %d artifacts", len(result.ArtifactIDs))
	}
}

func TestSubmitBulkRequiresBulkState(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	sessionID := startCollecting(t, e, "tpl-basic")

	_, err := e.SubmitBulk(ctx, sessionID, []map[string]string{bulkRow("Asha Rao")}, "print")
	var stateErr *workflow.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestImportCSV(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	sessionID := startBulk(t, e)

	csv := "Employee Name,Designation,Date of Joining,CTC\n" +
		"Asha Rao,Staff Engineer,2024-12-01,1200000\n"

	result, err := e.ImportCSV(ctx, sessionID, strings.NewReader(csv), "document")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.ArtifactIDs) != 1 {
		t.Fatalf("expected one artifact, got %d", len(result.ArtifactIDs))
	}

	artifact, err := e.Artifact(ctx, result.ArtifactIDs[0])
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if !strings.HasPrefix(artifact.ContentType, "application/rtf") {
		t.Errorf("expected rtf artifact, got %s", artifact.ContentType)
	}
}

func TestBulkUsesSessionSignature(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	session, err := e.Start(ctx, "hr-ops")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.SelectTemplate(ctx, session.ID, "tpl-signed"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := e.ChooseInputMethod(ctx, session.ID, letter.InputBulk); err != nil {
		t.Fatalf("choose bulk: %v", err)
	}
	signature := []byte{0x89, 0x50, 0x4e, 0x47}
	if _, err := e.UploadAsset(ctx, session.ID, "signatory_signature", signature); err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Rows omit the signer columns entirely; the uploaded signature
	// stands in for them.
	result, err := e.SubmitBulk(ctx, session.ID, []map[string]string{bulkRow("Asha Rao")}, "print")
	if err != nil {
		t.Fatalf("submit bulk: %v", err)
	}
	if result.Rejected() {
		t.Fatalf("signature must satisfy signer columns: %+v", result.Missing)
	}
	if len(result.ArtifactIDs) != 1 {
		t.Fatalf("expected one artifact, got %+v", result)
	}

	artifact, err := e.Artifact(ctx, result.ArtifactIDs[0])
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if !strings.Contains(artifact.Content, "-- signature --") {
		t.Error("signature block missing from rendered content")
	}
	if strings.Contains(strings.ReplaceAll(artifact.Content, "-- signature --", ""), "skip") {
		t.Error("sentinel leaked into rendered content")
	}
}
