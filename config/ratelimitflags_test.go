package config

import (
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/kellymclaughlin/airship/ratelimit"
)

func Test_ratelimitFlags_String(t *testing.T) {
	f := &ratelimitFlags{
		{Resource: "widgets", Rate: 50, Burst: 10},
	}
	want := "resource=widgets,rate=50,burst=10"
	if got := f.String(); got != want {
		t.Errorf("ratelimitFlags.String() = %v, want %v", got, want)
	}
}

func Test_ratelimitFlags_Set(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantErr   bool
		errString string
		want      ratelimit.Settings
	}{
		{
			name: "resource with rate and burst",
			args: "resource=widgets,rate=50,burst=10",
			want: ratelimit.Settings{Resource: "widgets", Rate: 50, Burst: 10},
		},
		{
			name: "resource with rate only",
			args: "resource=widgets,rate=5.5",
			want: ratelimit.Settings{Resource: "widgets", Rate: 5.5},
		},
		{
			name: "global default (no resource)",
			args: "rate=100",
			want: ratelimit.Settings{Rate: 100},
		},
		{
			name:      "missing rate",
			args:      "resource=widgets,burst=10",
			wantErr:   true,
			errString: errInvalidRatelimitConfig.Error(),
		},
		{
			name:      "invalid rate",
			args:      "resource=widgets,rate=nope",
			wantErr:   true,
			errString: `strconv.ParseFloat: parsing "nope": invalid syntax`,
		},
		{
			name:      "invalid burst",
			args:      "resource=widgets,rate=5,burst=nope",
			wantErr:   true,
			errString: `strconv.Atoi: parsing "nope": invalid syntax`,
		},
		{
			name:      "unknown key",
			args:      "resource=widgets,rate=5,foo=bar",
			wantErr:   true,
			errString: errInvalidRatelimitConfig.Error(),
		},
		{
			name:      "malformed pair",
			args:      "resource",
			wantErr:   true,
			errString: errInvalidRatelimitConfig.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ratelimitFlags{}
			err := f.Set(tt.args)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ratelimitFlags.Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != tt.errString {
					t.Errorf("got error %q, want %q", err.Error(), tt.errString)
				}
				return
			}

			got := *f
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("ratelimitFlags.Set() = %+v, want [%+v]", got, tt.want)
			}
		})
	}
}

func Test_ratelimitFlags_UnmarshalYAML(t *testing.T) {
	f := &ratelimitFlags{}
	yml := `resource: widgets
rate: 50
burst: 10`

	if err := yaml.Unmarshal([]byte(yml), f); err != nil {
		t.Fatalf("ratelimitFlags.UnmarshalYAML() error = %v", err)
	}

	got := *f
	want := ratelimit.Settings{Resource: "widgets", Rate: 50, Burst: 10}
	if len(got) != 1 || got[0] != want {
		t.Errorf("ratelimitFlags.UnmarshalYAML() = %+v, want [%+v]", got, want)
	}
}
