package uploader

import (
	"reflect"
	"testing"
)

func TestCaseFiles(t *testing.T) {
	all := []string{"README.md", "case.sql", "case.tar.zst", "schema.sql", "summary.json"}
	got := caseFiles(all, "case.tar.zst")
	want := []string{"case.tar.zst", "summary.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("caseFiles = %v, want %v", got, want)
	}

	noArchive := []string{"README.md", "case.sql", "summary.json"}
	got = caseFiles(noArchive, "case.tar.zst")
	if !reflect.DeepEqual(got, noArchive) {
		t.Fatalf("caseFiles without archive = %v, want all files", got)
	}
}
