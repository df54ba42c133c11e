package request

import (
	"testing"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		want    timewindow.Window
		wantErr bool
	}{
		{name: "empty selects all", param: "", want: timewindow.All},
		{name: "explicit all", param: "all", want: timewindow.All},
		{name: "month", param: "month", want: timewindow.Month},
		{name: "case insensitive", param: "3_MONTHS", want: timewindow.ThreeMonths},
		{name: "unknown", param: "decade", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindow(tt.param)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWindow() = %q, want %q", got, tt.want)
			}
		})
	}
}
