package cmd

import (
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

func TestAddCmd_Acquisition(t *testing.T) {
	eur := "EUR"
	currency = &eur

	tests := []struct {
		name    string
		cmd     addCmd
		args    []string
		want    folio.Acquisition
		wantErr bool
	}{
		{
			name: "lookup everything",
			args: []string{"aapl", "10"},
			want: folio.Acquisition{Ticker: "aapl", Quantity: folio.Q(10)},
		},
		{
			name: "all flags",
			cmd:  addCmd{price: "185.20", date: "2024-01-05", name: "Apple"},
			args: []string{"AAPL", "2.5"},
			want: folio.Acquisition{
				Ticker:   "AAPL",
				Quantity: folio.Q(2.5),
				Price:    folio.M(185.2, "EUR"),
				Date:     date.New(2024, time.January, 5),
				Name:     "Apple",
			},
		},
		{name: "missing quantity", args: []string{"AAPL"}, wantErr: true},
		{name: "invalid quantity", args: []string{"AAPL", "ten"}, wantErr: true},
		{name: "invalid price", cmd: addCmd{price: "abc"}, args: []string{"AAPL", "1"}, wantErr: true},
		{name: "zero price", cmd: addCmd{price: "0"}, args: []string{"AAPL", "1"}, wantErr: true},
		{name: "invalid date", cmd: addCmd{date: "05/01/2024"}, args: []string{"AAPL", "1"}, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.cmd.acquisition(test.args)
			if (err != nil) != test.wantErr {
				t.Fatalf("acquisition(%q) error = %v, wantErr %v", test.args, err, test.wantErr)
			}
			if test.wantErr {
				return
			}
			if got.Ticker != test.want.Ticker || !got.Quantity.Equal(test.want.Quantity) ||
				!got.Price.Equal(test.want.Price) || got.Date != test.want.Date || got.Name != test.want.Name {
				t.Errorf("acquisition(%q) = %+v, want %+v", test.args, got, test.want)
			}
		})
	}
}
