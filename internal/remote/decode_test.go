// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package remote

import (
	"testing"
)

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    RemoteConfig
		wantErr bool
	}{
		{
			name: "canonical",
			body: `{"Volume": 70, "CurrentSound": "bell1"}`,
			want: RemoteConfig{Volume: 70, CurrentSound: "bell1"},
		},
		{
			name: "null sound",
			body: `{"Volume": 50, "CurrentSound": null}`,
			want: RemoteConfig{Volume: 50},
		},
		{
			name: "missing sound",
			body: `{"Volume": 5}`,
			want: RemoteConfig{Volume: 5},
		},
		{
			name: "legacy lowercase keys",
			body: `{"volume": "30", "currentSound": "chime"}`,
			want: RemoteConfig{Volume: 30, CurrentSound: "chime"},
		},
		{
			name: "canonical wins over legacy",
			body: `{"volume": 10, "Volume": 90, "currentSound": "old", "CurrentSound": "new"}`,
			want: RemoteConfig{Volume: 90, CurrentSound: "new"},
		},
		{
			name: "envelope with text values",
			body: `{"config": {"CurrentSound": "3", "MaxSoundLength": "10", "Volume": "65"}}`,
			want: RemoteConfig{Volume: 65, CurrentSound: "3", MaxSoundLength: 10},
		},
		{
			name: "numeric sound id",
			body: `{"Volume": 40, "CurrentSound": 12}`,
			want: RemoteConfig{Volume: 40, CurrentSound: "12"},
		},
		{
			name: "integral float volume",
			body: `{"Volume": 70.0}`,
			want: RemoteConfig{Volume: 70},
		},
		{
			name: "boundaries",
			body: `{"Volume": 100, "MaxSoundLength": 0}`,
			want: RemoteConfig{Volume: 100},
		},
		{name: "volume above range", body: `{"Volume": 101}`, wantErr: true},
		{name: "negative volume", body: `{"Volume": -1}`, wantErr: true},
		{name: "fractional volume", body: `{"Volume": 50.5}`, wantErr: true},
		{name: "text volume not a number", body: `{"Volume": "loud"}`, wantErr: true},
		{name: "missing volume", body: `{"CurrentSound": "bell1"}`, wantErr: true},
		{name: "null volume", body: `{"Volume": null}`, wantErr: true},
		{name: "object sound id", body: `{"Volume": 1, "CurrentSound": {"id": 1}}`, wantErr: true},
		{name: "not json", body: `<html>502</html>`, wantErr: true},
		{name: "array", body: `[1,2]`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "truncated", body: `{"Volume": 7`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodeConfig([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRemoteConfigHelpers(t *testing.T) {
	t.Parallel()

	c := RemoteConfig{Volume: 1, CurrentSound: "x", MaxSoundLength: 4}
	if !c.HasSound() {
		t.Error("HasSound() = false")
	}
	if c.MaxLength().Seconds() != 4 {
		t.Errorf("MaxLength() = %s", c.MaxLength())
	}
	if (RemoteConfig{}).HasSound() {
		t.Error("zero config should have no sound")
	}
}
