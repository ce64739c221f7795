package console

import (
	"testing"

	"github.com/stokerhq/stoker/internal/workload"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"ls", Command{Kind: List}},
		{"ra", Command{Kind: RestartAll}},
		{"sa", Command{Kind: StopAll}},
		{"0", Command{Kind: ClearSelect}},
		{"1", Command{Kind: Select, ID: workload.ID("1")}},
		{"42", Command{Kind: Select, ID: workload.ID("42")}},
		{"  7  ", Command{Kind: Select, ID: workload.ID("7")}},
		{"r3", Command{Kind: Restart, ID: workload.ID("3")}},
		{"r12", Command{Kind: Restart, ID: workload.ID("12")}},
		{"s3", Command{Kind: Stop, ID: workload.ID("3")}},
		{"", Command{Kind: None}},
		{"   ", Command{Kind: None}},
		{"help", Command{Kind: None}},
		{"r", Command{Kind: None}},
		{"s", Command{Kind: None}},
		{"rx", Command{Kind: None}},
		{"s 3", Command{Kind: None}},
		{"3x", Command{Kind: None}},
		{"-1", Command{Kind: None}},
		{"restart", Command{Kind: None}},
	}
	for _, tt := range tests {
		if got := Parse(tt.line); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}
