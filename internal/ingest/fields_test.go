package ingest

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string // RFC3339, empty means nil
	}{
		{"2025/08/30 13:31:22", "2025-08-30T13:31:22+08:00"},
		{"2025/8/30 13:31", "2025-08-30T13:31:00+08:00"},
		{"2025/08/30 13:31", "2025-08-30T13:31:00+08:00"},
		{"2025年8月30日 13時31分22秒", "2025-08-30T13:31:22+08:00"},
		{"2025年8月30日 13時31分", "2025-08-30T13:31:00+08:00"},
		{"  2025/08/30 13:31:22  ", "2025-08-30T13:31:22+08:00"},
		{"#N/A", ""},
		{"N/A", ""},
		{"", ""},
		{"30/08/2025 13:31", ""}, // day-first order not accepted
		{"2025-08-30 13:31", ""},
		{"garbage", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("ParseTimestamp(%q) = %v, want nil", tt.in, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseTimestamp(%q) = nil, want %s", tt.in, tt.want)
			}
			want, err := time.Parse(time.RFC3339, tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

// Both accepted text forms must land on the same UTC+8 instant when the
// seconds are implicitly zero.
func TestParseTimestampSecondsOptional(t *testing.T) {
	withSeconds := ParseTimestamp("2025/08/30 13:31:00")
	withoutSeconds := ParseTimestamp("2025/08/30 13:31")
	if withSeconds == nil || withoutSeconds == nil {
		t.Fatal("both forms must parse")
	}
	if !withSeconds.Equal(*withoutSeconds) {
		t.Errorf("instants differ: %v vs %v", withSeconds, withoutSeconds)
	}
	_, offset := withSeconds.Zone()
	if offset != 8*60*60 {
		t.Errorf("offset = %d, want +8h", offset)
	}
}

func TestIsNA(t *testing.T) {
	for _, s := range []string{"", "  ", "#N/A", "NA", "N/A", " N/A "} {
		if !IsNA(s) {
			t.Errorf("IsNA(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "x", "2025/08/30"} {
		if IsNA(s) {
			t.Errorf("IsNA(%q) = true, want false", s)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"120", intPtr(120)},
		{" 120 ", intPtr(120)},
		{"120°", intPtr(120)},
		{"方位120", intPtr(120)},
		{"-30", intPtr(-30)},
		{"#N/A", nil},
		{"", nil},
		{"abc", nil},
	}
	for _, tt := range tests {
		got := ParseInt(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseInt(%q) = %d, want nil", tt.in, *got)
		case tt.want != nil && got == nil:
			t.Errorf("ParseInt(%q) = nil, want %d", tt.in, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("ParseInt(%q) = %d, want %d", tt.in, *got, *tt.want)
		}
	}
}

func TestEstimateAccuracy(t *testing.T) {
	tests := []struct {
		addr string
		want int
	}{
		{"屏東縣東港鎮新生三路175號", 300},
		{"台北市中正區忠孝西路一段49號", 150},
		{"高雄市苓雅區", 150},
		{"屏東縣內埔鄉水門村", 800},
		{"", 300},
	}
	for _, tt := range tests {
		if got := EstimateAccuracy(tt.addr); got != tt.want {
			t.Errorf("EstimateAccuracy(%q) = %d, want %d", tt.addr, got, tt.want)
		}
	}
}

func intPtr(n int) *int { return &n }
