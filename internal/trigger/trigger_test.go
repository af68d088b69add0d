package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"manual", KindManual},
		{"schedule", KindSchedule},
		{"cron", KindSchedule},
		{"push", KindPush},
		{"pull_request", KindPullRequest},
		{"PR", KindPullRequest},
		{"  Manual  ", KindManual},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("webhook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trigger kind")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		wantErr string
	}{
		{
			name:    "manual",
			trigger: Trigger{Kind: KindManual},
		},
		{
			name:    "schedule with cron",
			trigger: Trigger{Kind: KindSchedule, Cron: "0 2 * * *"},
		},
		{
			name:    "schedule without cron",
			trigger: Trigger{Kind: KindSchedule},
			wantErr: "requires a cron expression",
		},
		{
			name:    "schedule with bad cron",
			trigger: Trigger{Kind: KindSchedule, Cron: "not a cron"},
			wantErr: "invalid cron expression",
		},
		{
			name:    "push with branches",
			trigger: Trigger{Kind: KindPush, Branches: []string{"develop"}},
		},
		{
			name:    "push without branches",
			trigger: Trigger{Kind: KindPush},
			wantErr: "requires at least one branch",
		},
		{
			name:    "pull_request without branches",
			trigger: Trigger{Kind: KindPullRequest},
			wantErr: "requires at least one branch",
		},
		{
			name:    "unknown kind",
			trigger: Trigger{Kind: Kind("webhook")},
			wantErr: "unknown trigger kind",
		},
		{
			name:    "invalid suite",
			trigger: Trigger{Kind: KindManual, Suite: Suite("partial")},
			wantErr: "invalid suite",
		},
		{
			name:    "explicit suite",
			trigger: Trigger{Kind: KindManual, Suite: SuiteDynamic},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trigger.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMatchesBranch(t *testing.T) {
	push := Trigger{Kind: KindPush, Branches: []string{"main", "develop"}}

	assert.True(t, push.MatchesBranch("develop"))
	assert.True(t, push.MatchesBranch("main"))
	assert.False(t, push.MatchesBranch("feature/solver"))

	manual := Trigger{Kind: KindManual}
	assert.False(t, manual.MatchesBranch("main"))
}

func TestNext(t *testing.T) {
	trig := Trigger{Kind: KindSchedule, Cron: "0 2 * * *"}
	from := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	next, err := trig.Next(from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 24, 2, 0, 0, 0, time.UTC), next)
}

func TestNext_NonSchedule(t *testing.T) {
	_, err := Trigger{Kind: KindManual}.Next(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no schedule")
}

func TestSuiteFor(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		want    Suite
	}{
		{
			name:    "manual runs full",
			trigger: Trigger{Kind: KindManual},
			want:    SuiteFull,
		},
		{
			name:    "nightly schedule runs static",
			trigger: Trigger{Kind: KindSchedule, Cron: "0 2 * * *"},
			want:    SuiteStatic,
		},
		{
			name:    "weekly schedule runs full",
			trigger: Trigger{Kind: KindSchedule, Cron: "0 2 * * 0"},
			want:    SuiteFull,
		},
		{
			name:    "weekday-list schedule runs full",
			trigger: Trigger{Kind: KindSchedule, Cron: "0 2 * * 1,4"},
			want:    SuiteFull,
		},
		{
			name:    "step day-of-week is not weekly",
			trigger: Trigger{Kind: KindSchedule, Cron: "0 2 * * */2"},
			want:    SuiteStatic,
		},
		{
			name:    "push runs static",
			trigger: Trigger{Kind: KindPush, Branches: []string{"develop"}},
			want:    SuiteStatic,
		},
		{
			name:    "pull_request runs static",
			trigger: Trigger{Kind: KindPullRequest, Branches: []string{"main"}},
			want:    SuiteStatic,
		},
		{
			name:    "explicit suite wins",
			trigger: Trigger{Kind: KindPush, Branches: []string{"main"}, Suite: SuiteFull},
			want:    SuiteFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trigger.SuiteFor())
		})
	}
}
