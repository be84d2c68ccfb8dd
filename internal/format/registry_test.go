package format

import "testing"

func TestBuiltinFormatsRegistered(t *testing.T) {
	keys := Keys()
	want := []string{"ass", "lrc", "sbv", "srt", "ttml", "vtt"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d builtin formats, got %v", len(want), keys)
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected sorted key %s at %d, got %s", key, i, keys[i])
		}
	}
}

func TestContentTypeByExtension(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"sample.srt", "application/x-subrip"},
		{"SAMPLE.SRT", "application/x-subrip"},
		{"season1/ep1.vtt", "text/vtt; charset=utf-8"},
		{"karaoke.ssa", "text/x-ssa"},
		{"noext", DefaultContentType},
		{"blob.zzzunknown", DefaultContentType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContentType(tc.name); got != tc.want {
				t.Fatalf("ContentType(%q) = %q, want %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestContentTypeFallsBackToMime(t *testing.T) {
	if got := ContentType("index.html"); got != "text/html; charset=utf-8" {
		t.Fatalf("expected mime fallback for html, got %q", got)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := newRegistry()
	if err := r.register(Format{Key: "srt", Extensions: []string{"srt"}, ContentType: "text/plain"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.register(Format{Key: "SRT", Extensions: []string{".sub"}, ContentType: "text/plain"}); err == nil {
		t.Fatalf("duplicate key should fail")
	}
	if err := r.register(Format{Key: "other", Extensions: []string{".SRT"}, ContentType: "text/plain"}); err == nil {
		t.Fatalf("duplicate extension should fail")
	}
}

func TestRegistryValidatesInput(t *testing.T) {
	r := newRegistry()
	if err := r.register(Format{Extensions: []string{".x"}, ContentType: "text/plain"}); err == nil {
		t.Fatalf("missing key should fail")
	}
	if err := r.register(Format{Key: "x", ContentType: "text/plain"}); err == nil {
		t.Fatalf("missing extensions should fail")
	}
	if err := r.register(Format{Key: "y", Extensions: []string{".y"}}); err == nil {
		t.Fatalf("missing content type should fail")
	}
}

func TestResolveNormalizesKey(t *testing.T) {
	f, ok := Resolve("  VTT ")
	if !ok {
		t.Fatalf("expected vtt to resolve")
	}
	if f.Extensions[0] != ".vtt" {
		t.Fatalf("unexpected extensions: %v", f.Extensions)
	}
}
