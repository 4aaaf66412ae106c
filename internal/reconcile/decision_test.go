package reconcile

import (
	"testing"

	"showstub/internal/sonarr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		show     sonarr.Show
		hasMedia bool
		want     Decision
	}{
		{
			name: "monitored continuing without media",
			show: sonarr.Show{Monitored: true, Status: sonarr.StatusContinuing},
			want: DecisionNeedsStub,
		},
		{
			name: "monitored upcoming without media",
			show: sonarr.Show{Monitored: true, Status: sonarr.StatusUpcoming},
			want: DecisionNeedsStub,
		},
		{
			name:     "monitored continuing with media",
			show:     sonarr.Show{Monitored: true, Status: sonarr.StatusContinuing},
			hasMedia: true,
			want:     DecisionHasRealMedia,
		},
		{
			name: "ended",
			show: sonarr.Show{Monitored: true, Status: sonarr.StatusEnded},
			want: DecisionEnded,
		},
		{
			name:     "ended with media still ends",
			show:     sonarr.Show{Monitored: true, Status: sonarr.StatusEnded},
			hasMedia: true,
			want:     DecisionEnded,
		},
		{
			name: "unmonitored wins over ended",
			show: sonarr.Show{Monitored: false, Status: sonarr.StatusEnded},
			want: DecisionFilteredOut,
		},
		{
			name: "unmonitored continuing",
			show: sonarr.Show{Monitored: false, Status: sonarr.StatusContinuing},
			want: DecisionFilteredOut,
		},
		{
			name: "unknown status",
			show: sonarr.Show{Monitored: true, Status: "deleted"},
			want: DecisionFilteredOut,
		},
		{
			name: "status comparison is caseless",
			show: sonarr.Show{Monitored: true, Status: "Continuing"},
			want: DecisionNeedsStub,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.show, tc.hasMedia); got != tc.want {
				t.Fatalf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	pairs := map[Decision]string{
		DecisionFilteredOut:  "filtered-out",
		DecisionEnded:        "ended",
		DecisionHasRealMedia: "has-real-media",
		DecisionNeedsStub:    "needs-stub",
	}
	for decision, want := range pairs {
		if got := decision.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", decision, got, want)
		}
	}
}
