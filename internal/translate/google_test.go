package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoogleLangCode(t *testing.T) {
	cases := map[string]string{
		"he":   "iw",
		"jv":   "jw",
		"":     "auto",
		"auto": "auto",
		"en":   "en",
		"ru":   "ru",
	}
	for in, want := range cases {
		if got := googleLangCode(in); got != want {
			t.Errorf("googleLangCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDirection(t *testing.T) {
	if Direction("he") != "rtl" || Direction("ar") != "rtl" {
		t.Fatal("rtl languages misclassified")
	}
	if Direction("en") != "ltr" || Direction("") != "ltr" {
		t.Fatal("ltr languages misclassified")
	}
}

func TestPostprocessRTL(t *testing.T) {
	got := postprocessRTL("שלום עולם .\n\nשורה שניה , כאן")
	lines := strings.Split(got, "\n")
	if !strings.HasPrefix(lines[0], "‏") {
		t.Fatalf("first paragraph missing RLM: %q", lines[0])
	}
	if lines[1] != "" {
		t.Fatalf("empty paragraph should stay empty: %q", lines[1])
	}
	if strings.Contains(got, " .") || strings.Contains(got, " ,") {
		t.Fatalf("punctuation gaps not normalized: %q", got)
	}
}

type stubTranslator struct {
	name   string
	result Result
	err    error
	calls  int
}

func (s *stubTranslator) Translate(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	s.calls++
	if s.err != nil {
		return Result{}, s.err
	}
	return s.result, nil
}

func (s *stubTranslator) Name() string { return s.name }

func TestServiceLocalFallsBackToRemote(t *testing.T) {
	local := &stubTranslator{name: "nllb", err: errors.New("model not loaded")}
	remote := &stubTranslator{name: "google", result: Result{Success: true, Translation: "hola", Provider: "google"}}
	svc := NewService(local, remote)

	res := svc.Local(context.Background(), Request{Text: "hello", TargetLang: "es"}, nil)
	if !res.Success || res.Provider != "google" {
		t.Fatalf("res = %+v, want remote fallback", res)
	}
	if local.calls != 1 || remote.calls != 1 {
		t.Fatalf("calls local=%d remote=%d, want 1/1", local.calls, remote.calls)
	}
}

func TestServicePlaceholderWhenAllFail(t *testing.T) {
	local := &stubTranslator{name: "nllb", err: errors.New("down")}
	remote := &stubTranslator{name: "google", err: errors.New("down too")}
	svc := NewService(local, remote)

	res := svc.Local(context.Background(), Request{Text: "hello", TargetLang: "he"}, nil)
	if !res.Success || res.Provider != "placeholder" {
		t.Fatalf("res = %+v, want placeholder", res)
	}
	if res.Translation == "" {
		t.Fatal("placeholder translation is blank")
	}
	if res.Direction != "rtl" {
		t.Fatalf("direction = %q, want rtl", res.Direction)
	}
}

func TestServicePlaceholderUnknownLanguage(t *testing.T) {
	svc := NewService(nil, &stubTranslator{name: "google", err: errors.New("down")})
	res := svc.Local(context.Background(), Request{Text: "x", TargetLang: "xx"}, nil)
	if res.Translation != placeholders["en"] {
		t.Fatalf("unknown language should fall back to English placeholder, got %q", res.Translation)
	}
}
