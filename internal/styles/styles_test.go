package styles

import (
	"errors"
	"strings"
	"testing"
)

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0">
  <office:styles>
    <style:style style:name="Strong_20_Emphasis" style:family="text">
      <style:text-properties fo:font-weight="bold"/>
    </style:style>
    <style:style style:name="Heavy" style:family="text">
      <style:text-properties fo:font-weight="700"/>
    </style:style>
    <style:style style:name="Light" style:family="text">
      <style:text-properties fo:font-weight="300"/>
    </style:style>
    <style:style style:name="Inherited" style:family="text" style:parent-style-name="Strong_20_Emphasis"/>
    <style:style style:name="Unbolded" style:family="text" style:parent-style-name="Strong_20_Emphasis">
      <style:text-properties fo:font-weight="normal"/>
    </style:style>
    <style:style style:name="LoopA" style:family="text" style:parent-style-name="LoopB"/>
    <style:style style:name="LoopB" style:family="text" style:parent-style-name="LoopA"/>
    <text:outline-style style:name="Outline">
      <text:outline-level-style text:level="1" style:num-format="1" style:num-suffix="."/>
      <text:outline-level-style text:level="2" style:num-format="a" text:display-levels="2" style:num-letter-sync="true"/>
      <text:outline-level-style text:level="3" style:num-format="I" style:num-prefix="(" style:num-suffix=")" text:display-levels="3" text:start-value="4"/>
    </text:outline-style>
  </office:styles>
</office:document-styles>`

func loadSet(t *testing.T, parts ...string) *Set {
	t.Helper()
	s := NewSet()
	for _, p := range parts {
		if err := s.Load(strings.NewReader(p)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return s
}

func TestSet_Style(t *testing.T) {
	s := loadSet(t, stylesXML)
	tests := []struct {
		name string
		bold bool
	}{
		{"Strong_20_Emphasis", true},
		{"Heavy", true},
		{"Light", false},
		{"Inherited", true},
		{"Unbolded", false},
		{"LoopA", false},
		{"", false},
		{"NoSuchStyle", false},
	}
	for _, tt := range tests {
		st, err := s.Style(tt.name)
		if err != nil {
			t.Fatalf("Style(%q): unexpected error: %v", tt.name, err)
		}
		if st.Bold != tt.bold {
			t.Errorf("Style(%q).Bold = %v, want %v", tt.name, st.Bold, tt.bold)
		}
	}
}

func TestSet_OutlineLevelStyle(t *testing.T) {
	s := loadSet(t, stylesXML)

	l1, err := s.OutlineLevelStyle(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want1 := OutlineLevelStyle{StartValue: 1, Suffix: ".", DisplayLevels: 1, NumFormat: "1"}
	if l1 != want1 {
		t.Errorf("level 1 = %+v, want %+v", l1, want1)
	}

	l2, err := s.OutlineLevelStyle(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l2.NumFormat != "a" || !l2.NumLetterSync || l2.DisplayLevels != 2 {
		t.Errorf("level 2 = %+v", l2)
	}

	l3, err := s.OutlineLevelStyle(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want3 := OutlineLevelStyle{StartValue: 4, Prefix: "(", Suffix: ")", DisplayLevels: 3, NumFormat: "I"}
	if l3 != want3 {
		t.Errorf("level 3 = %+v, want %+v", l3, want3)
	}
}

func TestSet_OutlineLevelMissing(t *testing.T) {
	s := loadSet(t, stylesXML)
	_, err := s.OutlineLevelStyle(4)
	if err == nil {
		t.Fatal("expected error for undefined outline level")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "4" {
		t.Errorf("expected NotFoundError for level 4, got %v", err)
	}
}

func TestSet_OutlineDefaultsWithoutOutlineStyle(t *testing.T) {
	s := NewSet()
	for level := 1; level <= DefaultOutlineLevels; level++ {
		ols, err := s.OutlineLevelStyle(level)
		if err != nil {
			t.Fatalf("level %d: unexpected error: %v", level, err)
		}
		if ols != DefaultOutlineLevelStyle() {
			t.Errorf("level %d = %+v, want defaults", level, ols)
		}
	}
	if _, err := s.OutlineLevelStyle(11); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for level 11, got %v", err)
	}
	if _, err := s.OutlineLevelStyle(0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for level 0, got %v", err)
	}
}

func TestSet_LaterPartsOverride(t *testing.T) {
	content := `<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0">
  <office:automatic-styles>
    <style:style style:name="T1" style:family="text" style:parent-style-name="Heavy"/>
    <style:style style:name="Light" style:family="text">
      <style:text-properties fo:font-weight="bold"/>
    </style:style>
  </office:automatic-styles>
</office:document-content>`
	s := loadSet(t, stylesXML, content)

	for _, name := range []string{"T1", "Light", "Strong_20_Emphasis"} {
		st, _ := s.Style(name)
		if !st.Bold {
			t.Errorf("Style(%q).Bold = false, want true", name)
		}
	}
	// content.xml has no outline style, so the one from styles.xml stays.
	if _, err := s.OutlineLevelStyle(3); err != nil {
		t.Errorf("expected outline level 3 to survive, got %v", err)
	}
}

func TestSet_StyleIgnoresOtherFamilies(t *testing.T) {
	content := `<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0">
  <office:automatic-styles>
    <style:style style:name="P1" style:family="paragraph">
      <style:text-properties fo:font-weight="bold"/>
    </style:style>
    <style:style style:name="Strong_20_Emphasis" style:family="paragraph">
      <style:text-properties fo:font-weight="normal"/>
    </style:style>
  </office:automatic-styles>
</office:document-content>`
	s := loadSet(t, stylesXML, content)

	if st, _ := s.Style("P1"); st.Bold {
		t.Error("paragraph style P1 resolved as a bold text style")
	}
	if st, _ := s.Style("Strong_20_Emphasis"); !st.Bold {
		t.Error("paragraph style overwrote the text style of the same name")
	}
}

func TestSet_LoadMalformed(t *testing.T) {
	s := NewSet()
	err := s.Load(strings.NewReader("<office:document-styles><unclosed>"))
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
