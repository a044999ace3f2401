package langdetect

import "testing"

func TestDetectEnglish(t *testing.T) {
	d := NewKeywordDetector()
	got := d.Detect("the quick brown fox and the lazy dog went to the river for a drink")
	if got != "en" {
		t.Fatalf("Detect = %q, want en", got)
	}
}

func TestDetectDefaultsToEnglish(t *testing.T) {
	d := NewKeywordDetector()
	for _, text := range []string{"", "xyzzy plugh 12345", "?!?!"} {
		if got := d.Detect(text); got != "en" {
			t.Errorf("Detect(%q) = %q, want en default", text, got)
		}
	}
}

func TestDetectTieDefaultsToEnglish(t *testing.T) {
	d := NewKeywordDetector()
	// "la" and "que" are keywords for both Spanish and French, so the
	// scores tie and no language clearly won.
	if got := d.Detect("la que"); got != "en" {
		t.Fatalf("Detect tie = %q, want en", got)
	}
}

func TestDetectOtherLanguages(t *testing.T) {
	d := NewKeywordDetector()
	cases := map[string]string{
		"el perro corre por la calle con una pelota que encontró": "es",
		"le chat est dans la maison avec les enfants pour une fête": "fr",
		"der Hund und die Katze sind nicht mit mir, ich habe ein Problem": "de",
		"и вот она сказала, что это не так, как он думал по дороге": "ru",
	}
	for text, want := range cases {
		if got := d.Detect(text); got != want {
			t.Errorf("Detect(%q) = %q, want %q", text, got, want)
		}
	}
}
