package publication

import "testing"

func TestNewDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
		want             string
		wantOK           bool
	}{
		{"full date", "2020", "3", "15", "2020-03-15", true},
		{"padded input", "2020", "03", "05", "2020-03-05", true},
		{"missing day", "2019", "11", "", "2019-11-01", true},
		{"year only", "2018", "", "", "2018-01-01", true},
		{"invalid month defaults", "2018", "13", "2", "2018-01-02", true},
		{"missing year", "", "5", "5", "", false},
		{"non-numeric year", "n.d.", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewDate(tt.year, tt.month, tt.day)
			if ok != tt.wantOK {
				t.Fatalf("NewDate() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("NewDate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2021-06-20", "2021-06-20", true},
		{"2021-06", "2021-06-01", true},
		{"2021", "2021-01-01", true},
		{"", "", false},
		{"June 2021", "", false},
		{"2021-06-20-01", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPublicationDate_IsJanFirst(t *testing.T) {
	if !(PublicationDate{Year: 2020, Month: 1, Day: 1}).IsJanFirst() {
		t.Error("2020-01-01 should be Jan 1st")
	}
	if (PublicationDate{Year: 2020, Month: 1, Day: 2}).IsJanFirst() {
		t.Error("2020-01-02 should not be Jan 1st")
	}
	if (PublicationDate{Year: 2020, Month: 3, Day: 1}).IsJanFirst() {
		t.Error("2020-03-01 should not be Jan 1st")
	}
}
