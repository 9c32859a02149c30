package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testCSV = `Restaurant ID,Restaurant Name,Country Code,City,Address,Locality,Locality Verbose,Longitude,Latitude,Cuisines,Average Cost for two,Currency,Has Table booking,Has Online delivery,Is delivering now,Switch to order menu,Price range,Aggregate rating,Rating color,Rating text,Votes
6317637,Le Petit Souffle,162,Makati City,"Third Floor, Century City Mall",Century City Mall,"Century City Mall, Makati City",121.027535,14.565443,"French, Japanese, Desserts",1100,Botswana Pula(P),Yes,No,No,No,3,4.8,Dark Green,Excellent,314
18189371,Din Tai Fung,1,New Delhi,"Ambience Mall, Vasant Kunj",Vasant Kunj,"Vasant Kunj, New Delhi",77.155,28.54,Chinese,1500,Indian Rupees(Rs.),No,No,No,No,3,3.9,Yellow,Good,120
6317637,Duplicate Id Diner,1,New Delhi,Somewhere,Somewhere,"Somewhere, New Delhi",,,"North Indian, Chinese",500,Indian Rupees(Rs.),No,Yes,No,No,2,3.1,Orange,Average,12
99,Cr` + "\xe8" + `me Caf` + "\xe9" + `,999,Paris,Rue,Rue,"Rue, Paris",200,95,,0,Euro(EUR),No,No,No,No,1,0,White,Not rated,0
`

func writeCountryTable(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Country Code", "Country"},
		{1, "India"},
		{162, "Phillipines"},
		{216, "United States"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, "Country-Code.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRestaurants(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "zomato.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
