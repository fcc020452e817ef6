package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/traackr/relver/pkg/cli/config"
	"github.com/traackr/relver/pkg/domain/model"
	"github.com/traackr/relver/pkg/domain/types"
)

func TestRelease_Resolve(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 5, 12, 0, time.UTC)

	tests := []struct {
		name            string
		cfg             config.Release
		wantErr         bool
		wantName        string
		wantPreviousTag string
	}{
		{
			name: "App derives release name and previous tag",
			cfg:  config.Release{App: "core"},

			wantName:        "core-2026-08-23T14.05.12Z",
			wantPreviousTag: "core-",
		},
		{
			name: "Explicit release name wins over derivation",
			cfg:  config.Release{App: "core", Name: "core-hotfix-7"},

			wantName:        "core-hotfix-7",
			wantPreviousTag: "core-",
		},
		{
			name: "Explicit previous tag kept with app",
			cfg:  config.Release{App: "core", PreviousTag: "core-2026-07-"},

			wantName:        "core-2026-08-23T14.05.12Z",
			wantPreviousTag: "core-2026-07-",
		},
		{
			name: "Release name with previous tag",
			cfg:  config.Release{Name: "v1.2.3", PreviousTag: "v1.2.2"},

			wantName:        "v1.2.3",
			wantPreviousTag: "v1.2.2",
		},
		{
			name:    "App and release tag are mutually exclusive",
			cfg:     config.Release{App: "core", ReleaseTag: "core-2026-08-01"},
			wantErr: true,
		},
		{
			name:    "Previous tag required without app",
			cfg:     config.Release{Name: "v1.2.3"},
			wantErr: true,
		},
		{
			name:    "Release name required without app",
			cfg:     config.Release{PreviousTag: "v1.2.2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Resolve(now)
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, goerr.HasTag(err, types.ErrTagConfig)).Equal(true)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, tt.cfg.Name).Equal(tt.wantName)
			gt.Value(t, tt.cfg.PreviousTag).Equal(tt.wantPreviousTag)
		})
	}
}

func TestDefaultCommitPattern(t *testing.T) {
	// The shipped default must satisfy the extractor's named-group
	// precondition.
	pattern, err := model.NewCommitPattern(config.DefaultCommitPattern)
	gt.NoError(t, err)

	key, value, ok := pattern.TryMatch("CORE-3724: fix the thing")
	gt.Value(t, ok).Equal(true)
	gt.Value(t, key).Equal("CORE-3724")
	gt.Value(t, value).Equal("fix the thing")
}
