package load

import (
	"fmt"
	"os"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"

	"github.com/goccy/go-json"
)

// JSONRecord is the shape of one element of the JSON output, the keys match
// the columns of the database table.
type JSONRecord struct {
	Country        string  `json:"Country"`
	GDPUSDBillions float64 `json:"GDP_USD_billion"`
}

// WriteJSON writes the dataset as a JSON array in dataset order, replacing
// whatever is at path. The file is written in a single call but not
// atomically, a crash during the write can leave it truncated.
func WriteJSON(path string, dataset gdp.Dataset) error {
	records := make([]JSONRecord, len(dataset.Records))
	for i, r := range dataset.Records {
		records[i] = JSONRecord{
			Country:        r.Country,
			GDPUSDBillions: r.Value,
		}
	}

	contents, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return etlerr.New(etlerr.StageLoad, etlerr.KindIO, fmt.Errorf("encode json: %w", err))
	}
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return etlerr.New(etlerr.StageLoad, etlerr.KindIO, err)
	}
	return nil
}

// ReadJSON reads a file written by WriteJSON.
func ReadJSON(path string) (gdp.Dataset, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return gdp.Dataset{}, etlerr.New(etlerr.StageLoad, etlerr.KindIO, err)
	}

	var records []JSONRecord
	err = json.Unmarshal(contents, &records)
	if err != nil {
		return gdp.Dataset{}, etlerr.New(etlerr.StageLoad, etlerr.KindIO, fmt.Errorf("decode %s: %w", path, err))
	}

	dataset := gdp.Dataset{
		Unit:    gdp.Billions,
		Records: make([]gdp.Record, len(records)),
	}
	for i, r := range records {
		dataset.Records[i] = gdp.Record{
			Country: r.Country,
			Value:   r.GDPUSDBillions,
		}
	}
	return dataset, nil
}
