package platform

import (
	"os"
	"strings"
	"testing"

	"github.com/ardnew/miltov/lang"
)

func TestPathPrefix(t *testing.T) {
	sep := string(os.PathListSeparator)

	got, err := call(t, "pathprefix",
		lang.String("/usr/bin"+sep+"/bin"),
		lang.String("/opt/miltov/bin"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := got.Str()
	if !strings.HasPrefix(s, "/opt/miltov/bin"+sep) {
		t.Errorf("expected prefixed list, got %q", s)
	}

	if _, err := call(t, "pathprefix"); err == nil {
		t.Error("expected an error without arguments")
	}
}

func TestPathPrefixIf(t *testing.T) {
	dir := t.TempDir()
	missing := dir + "-missing"

	got, err := call(t, "pathprefixif",
		lang.String(""),
		lang.String(dir),
		lang.String(missing),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := got.Str()
	if !strings.Contains(s, dir) {
		t.Errorf("existing directory dropped: %q", s)
	}

	if strings.Contains(s, missing) {
		t.Errorf("missing directory kept: %q", s)
	}
}
