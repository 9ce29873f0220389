package ignore

import "testing"

func TestParseLine(t *testing.T) {
	cases := []struct {
		line    string
		wantNil bool
		pattern string
		include bool
	}{
		{"", true, "", false},
		{"   ", true, "", false},
		{"# a comment", true, "", false},
		{"*.o", false, "*.o", true},
		{"!keep.o", false, "keep.o", false},
		{`\#literal`, false, "#literal", true},
	}
	for _, c := range cases {
		r, ok := parseLine(c.line)
		if c.wantNil {
			if ok {
				t.Errorf("parseLine(%q) = %+v, want nil", c.line, r)
			}
			continue
		}
		if !ok {
			t.Fatalf("parseLine(%q): expected a rule", c.line)
		}
		if r.Pattern != c.pattern || r.Include != c.include {
			t.Errorf("parseLine(%q) = %+v, want {%q %v}", c.line, r, c.pattern, c.include)
		}
	}
}

func TestMatchSetLastMatchWins(t *testing.T) {
	rules := []Rule{
		{Pattern: "*.log", Include: true},
		{Pattern: "keep.log", Include: false},
	}
	ignored, matched := matchSet(rules, "keep.log")
	if !matched {
		t.Fatal("expected a match")
	}
	if ignored {
		t.Error("last rule negates the ignore, expected not ignored")
	}

	ignored, matched = matchSet(rules, "other.log")
	if !matched || !ignored {
		t.Errorf("other.log: matched=%v ignored=%v, want true/true", matched, ignored)
	}
}

func TestCheckRejectsAbsolutePath(t *testing.T) {
	rules := &Rules{Scoped: map[string][]Rule{}}
	if _, err := Check(rules, "/etc/passwd"); err == nil {
		t.Fatal("expected an error for an absolute path")
	}
}

func TestCheckScopedPrecedesAbsolute(t *testing.T) {
	rules := &Rules{
		Absolute: [][]Rule{{{Pattern: "*.tmp", Include: true}}},
		Scoped: map[string][]Rule{
			"build": {{Pattern: "build/*.tmp", Include: false}},
		},
	}
	ignored, err := Check(rules, "build/keep.tmp")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ignored {
		t.Error("scoped rule should override the absolute ignore")
	}

	ignored, err = Check(rules, "other/skip.tmp")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !ignored {
		t.Error("expected absolute rule to ignore other/skip.tmp")
	}
}
