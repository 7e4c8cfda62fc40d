package main

import (
	"encoding/json"
	"testing"

	"github.com/campusworks/assets_backend/interpreter"
	"github.com/campusworks/assets_backend/models"
)

func TestConfirmEnvelope_BoundToIssuingUser(t *testing.T) {
	draft := &interpreter.Draft{
		Intent: interpreter.IntentDelete,
		Filter: models.ResourceFilter{Department: "CSE"},
	}
	envelope := confirmEnvelope{Username: "alice", Draft: draft}

	if !envelope.belongsTo("alice") {
		t.Fatal("issuing user must be able to confirm")
	}
	if envelope.belongsTo("mallory") {
		t.Fatal("another user must not be able to confirm")
	}
	if envelope.belongsTo("") {
		t.Fatal("empty username must never match")
	}
	if (confirmEnvelope{Username: "alice"}).belongsTo("alice") {
		t.Fatal("an envelope without a draft is unusable")
	}
}

func TestConfirmEnvelope_RoundTripsDraft(t *testing.T) {
	draft := &interpreter.Draft{
		Intent:      interpreter.IntentDelete,
		Instruction: "delete all resources in old building",
		Filter:      models.ResourceFilter{Location: "Old Building"},
	}
	data, err := json.Marshal(confirmEnvelope{Username: "alice", Draft: draft})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var envelope confirmEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !envelope.belongsTo("alice") {
		t.Fatal("round-tripped envelope lost its owner")
	}
	if envelope.Draft.Intent != interpreter.IntentDelete || envelope.Draft.Filter.Location != "Old Building" {
		t.Fatalf("round-tripped draft lost its scope: %+v", envelope.Draft)
	}
}
