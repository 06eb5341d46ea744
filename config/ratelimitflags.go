package config

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kellymclaughlin/airship/ratelimit"
)

const ratelimitUsage = `set global or resource specific rate limits, e.g. -ratelimit resource=widgets,rate=50,burst=10
	possible rate limit properties:
	resource: a resource name that overrides the global default for that resource
	rate: sustained requests per second
	burst: maximum burst size (defaults to 1)`

type ratelimitFlags []ratelimit.Settings

var errInvalidRatelimitConfig = errors.New("invalid ratelimit config (expected resource=name,rate=n[,burst=n])")

func (f ratelimitFlags) String() string {
	s := make([]string, len(f))
	for i, fi := range f {
		s[i] = strings.TrimSpace(strings.Join([]string{
			"resource=" + fi.Resource,
			"rate=" + strconv.FormatFloat(fi.Rate, 'g', -1, 64),
			"burst=" + strconv.Itoa(fi.Burst),
		}, ","))
	}
	return strings.Join(s, "\n")
}

func (f *ratelimitFlags) Set(value string) error {
	var s ratelimit.Settings

	vs := strings.Split(value, ",")
	for _, vi := range vs {
		k, v, found := strings.Cut(vi, "=")
		if !found {
			return errInvalidRatelimitConfig
		}

		switch k {
		case "resource":
			s.Resource = v
		case "rate":
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			s.Rate = r
		case "burst":
			b, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			s.Burst = b
		default:
			return errInvalidRatelimitConfig
		}
	}

	if s.Rate <= 0 {
		return errInvalidRatelimitConfig
	}

	*f = append(*f, s)
	return nil
}

func (f *ratelimitFlags) UnmarshalYAML(unmarshal func(any) error) error {
	var s ratelimit.Settings
	if err := unmarshal(&s); err != nil {
		return err
	}

	*f = append(*f, s)
	return nil
}
