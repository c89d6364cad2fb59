package scheduler

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  Algorithm
	}{
		{"FCFS", FCFS},
		{"fcfs", FCFS},
		{"first-come-first-served", FCFS},
		{"SJF", SJF},
		{"Shortest Job First", SJF},
		{"NPP", NPP},
		{"Priority", NPP},
		{"non_preemptive_priority", NPP},
		{"SRTF", SRTF},
		{"PP", PP},
		{"preemptive priority", PP},
		{"Round Robin", RoundRobin},
		{"rr", RoundRobin},
		{"  RoundRobin ", RoundRobin},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAlgorithm_Unknown(t *testing.T) {
	for _, name := range []string{"", "lottery", "mlfq", "FCFS2"} {
		_, err := ParseAlgorithm(name)
		if !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", name, err)
		}
	}
}

func TestParseAlgorithms(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []Algorithm
	}{
		{"empty", nil, nil},
		{"keeps order", []string{"rr", "fcfs", "sjf"}, []Algorithm{RoundRobin, FCFS, SJF}},
		{"drops repeats", []string{"srtf", "SRTF", "fcfs", "shortest remaining time first", "srtf"}, []Algorithm{SRTF, FCFS}},
		{"aliases collapse", []string{"priority", "NPP"}, []Algorithm{NPP}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithms(tt.input)
			if err != nil {
				t.Fatalf("ParseAlgorithms(%v) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseAlgorithms(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParseAlgorithms(%v)[%d] = %s, want %s", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseAlgorithms_Unknown(t *testing.T) {
	if _, err := ParseAlgorithms([]string{"fcfs", "lottery"}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("ParseAlgorithms error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestAlgorithm_RoundTripNames(t *testing.T) {
	for _, alg := range All() {
		parsed, err := ParseAlgorithm(alg.String())
		if err != nil || parsed != alg {
			t.Errorf("ParseAlgorithm(%s) = %v, %v", alg, parsed, err)
		}
		parsed, err = ParseAlgorithm(alg.Description())
		if err != nil || parsed != alg {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", alg.Description(), parsed, err)
		}
	}
}

func TestAlgorithm_Properties(t *testing.T) {
	tests := []struct {
		alg        Algorithm
		priorities bool
		quantum    bool
		preemptive bool
	}{
		{FCFS, false, false, false},
		{SJF, false, false, false},
		{NPP, true, false, false},
		{SRTF, false, false, true},
		{PP, true, false, true},
		{RoundRobin, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			if tt.alg.NeedsPriorities() != tt.priorities {
				t.Errorf("NeedsPriorities() = %v", tt.alg.NeedsPriorities())
			}
			if tt.alg.NeedsQuantum() != tt.quantum {
				t.Errorf("NeedsQuantum() = %v", tt.alg.NeedsQuantum())
			}
			if tt.alg.Preemptive() != tt.preemptive {
				t.Errorf("Preemptive() = %v", tt.alg.Preemptive())
			}
			if !tt.alg.Valid() {
				t.Error("Valid() = false")
			}
		})
	}

	if Algorithm(-1).Valid() || Algorithm(6).Valid() {
		t.Error("out-of-range algorithms reported valid")
	}
	if Algorithm(99).String() != "unknown" {
		t.Errorf("String() = %s", Algorithm(99).String())
	}
}

func TestAlgorithm_JSON(t *testing.T) {
	type payload struct {
		Algorithm Algorithm `json:"algorithm"`
	}

	data, err := json.Marshal(payload{Algorithm: SRTF})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"algorithm":"SRTF"}` {
		t.Errorf("Marshal = %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"algorithm":"round robin"}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Algorithm != RoundRobin {
		t.Errorf("Unmarshal algorithm = %s", p.Algorithm)
	}

	if err := json.Unmarshal([]byte(`{"algorithm":"bogus"}`), &p); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Unmarshal(bogus) error = %v", err)
	}
}

func TestNames(t *testing.T) {
	want := []string{"FCFS", "SJF", "NPP", "SRTF", "PP", "RR"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestError_Format(t *testing.T) {
	err := invalidInput("quantum", "must be positive (got %d)", -1)
	if got := err.Error(); got != "invalid input: quantum: must be positive (got -1)" {
		t.Errorf("Error() = %q", got)
	}
	if InvalidInput.Code() != "INVALID_INPUT" || UnknownAlgorithm.Code() != "UNKNOWN_ALGORITHM" {
		t.Error("unexpected error codes")
	}
}
