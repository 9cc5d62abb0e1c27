package repository

import (
	"testing"

	"civicreport/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMatchesSearch(t *testing.T) {
	r := &model.Report{Issue: "Broken streetlight", Category: "Lighting", Location: "Elm Street"}
	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"broken", true},
		{"LIGHTING", true},
		{"elm st", true},
		{"pothole", false},
	}
	for _, tt := range tests {
		if got := matchesSearch(r, tt.term); got != tt.want {
			t.Errorf("matchesSearch(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	tests := map[string]string{
		"Road": "%road%",
		"50%":  "%50!%%",
		"a_b":  "%a!_b%",
		"wow!": "%wow!!%",
	}
	for in, want := range tests {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReportQueryCombinesStatusConstraints(t *testing.T) {
	q := reportQuery(ReportFilter{ReportStatus: model.ReportPending, ExcludeStatus: model.ReportSolved, Search: "a.b"})
	status, ok := q["reportStatus"].(bson.M)
	if !ok {
		t.Fatalf("reportStatus constraint has type %T", q["reportStatus"])
	}
	if status["$eq"] != model.ReportPending || status["$ne"] != model.ReportSolved {
		t.Errorf("reportStatus constraint = %v", status)
	}
	if _, ok := q["$or"]; !ok {
		t.Error("search did not add $or clause")
	}
}

func TestRoleAllowed(t *testing.T) {
	if !roleAllowed(model.RoleAdmin, nil) {
		t.Error("empty onlyFrom should allow any role")
	}
	if roleAllowed(model.RoleAdmin, []model.Role{model.RoleUser}) {
		t.Error("admin should not match onlyFrom=[user]")
	}
}
