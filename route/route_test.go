package route

import "testing"

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		name     string
		template string
		want     Route
	}{
		{
			name:     "root",
			template: "",
			want:     Route{{Kind: Bound, Literal: ""}},
		},
		{
			name:     "literal",
			template: "widgets",
			want:     Route{{Kind: Bound, Literal: "widgets"}},
		},
		{
			name:     "var",
			template: "blog </> ::year:: </> ::slug::",
			want: Route{
				{Kind: Bound, Literal: "blog"},
				{Kind: Var, Name: "year"},
				{Kind: Var, Name: "slug"},
			},
		},
		{
			name:     "wildcard",
			template: "files </> *",
			want: Route{
				{Kind: Bound, Literal: "files"},
				{Kind: Rest},
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.template)
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.template, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Parse(%q)[%d] = %#v, want %#v", tt.template, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilders(t *testing.T) {
	if len(Root()) != 0 {
		t.Fatalf("Root() = %#v, want empty route", Root())
	}
	if got := VarSeg("id"); len(got) != 1 || got[0].Kind != Var || got[0].Name != "id" {
		t.Fatalf("VarSeg(id) = %#v", got)
	}
	if got := Star(); len(got) != 1 || got[0].Kind != Rest {
		t.Fatalf("Star() = %#v", got)
	}
	if got := Bound1("widgets"); len(got) != 1 || got[0].Kind != Bound || got[0].Literal != "widgets" {
		t.Fatalf("Bound1(widgets) = %#v", got)
	}
}
