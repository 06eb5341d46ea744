package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kellymclaughlin/airship/circuit"
)

const breakerUsage = `set global or resource specific circuit breakers, e.g. -breaker type=rate,resource=widgets,window=300,failures=30
	possible breaker properties:
	type: consecutive/rate/disabled (defaults to consecutive)
	resource: a resource name that overrides the global defaults for that resource
	failures: the number of failures for consecutive or rate breakers
	window: the size of the sliding window for the rate breaker
	timeout: duration string while the breaker stays open
	half-open-requests: the number of requests in half-open state to succeed before getting closed again
	idle-ttl: duration string after the breaker is considered idle and reset`

const enableBreakersUsage = `enable breakers to be set for resources without providing global or resource specific settings (equivalent to: -breaker type=disabled)`

type breakerFlags []circuit.BreakerSettings

var errInvalidBreakerConfig = errors.New("invalid breaker config (allowed values are: consecutive, rate or disabled)")

func (b breakerFlags) String() string {
	s := make([]string, len(b))
	for i, bi := range b {
		s[i] = bi.String()
	}

	return strings.Join(s, "\n")
}

func (b *breakerFlags) Set(value string) error {
	var s circuit.BreakerSettings

	vs := strings.SplitSeq(value, ",")
	for vi := range vs {
		k, v, found := strings.Cut(vi, "=")
		if !found {
			return errInvalidBreakerConfig
		}

		switch k {
		case "type":
			switch v {
			case "consecutive":
				s.Type = circuit.ConsecutiveFailures
			case "rate":
				s.Type = circuit.FailureRate
			case "disabled":
				s.Type = circuit.BreakerDisabled
			default:
				return errInvalidBreakerConfig
			}
		case "resource":
			s.Resource = v
		case "window":
			i, err := strconv.Atoi(v)
			if err != nil {
				return err
			}

			s.Window = i
		case "failures":
			i, err := strconv.Atoi(v)
			if err != nil {
				return err
			}

			s.Failures = i
		case "timeout":
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}

			s.Timeout = d
		case "half-open-requests":
			i, err := strconv.Atoi(v)
			if err != nil {
				return err
			}

			s.HalfOpenRequests = i
		case "idle-ttl":
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}

			s.IdleTTL = d
		default:
			return errInvalidBreakerConfig
		}
	}

	if s.Type == circuit.BreakerNone {
		s.Type = circuit.ConsecutiveFailures
	}

	*b = append(*b, s)
	return nil
}

func (b *breakerFlags) UnmarshalYAML(unmarshal func(any) error) error {
	var fields map[string]string
	if err := unmarshal(&fields); err != nil {
		return err
	}

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	return b.Set(strings.Join(pairs, ","))
}
