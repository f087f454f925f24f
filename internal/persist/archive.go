package persist

import (
	"context"

	"github.com/swbattle/server/internal/core/event"
)

// Archive buffers a run's event stream in memory so it can be written in
// one transaction once the run is over.
type Archive struct {
	records []event.Record
}

func NewArchive() *Archive {
	return &Archive{records: make([]event.Record, 0, 256)}
}

func (a *Archive) Publish(r event.Record) {
	a.records = append(a.records, r)
}

// Len returns the number of buffered records.
func (a *Archive) Len() int { return len(a.records) }

// Final returns the SIMULATION_ENDED record, if the run produced one.
func (a *Archive) Final() (event.SimulationEnded, bool) {
	for i := len(a.records) - 1; i >= 0; i-- {
		if e, ok := a.records[i].Event.(event.SimulationEnded); ok {
			return e, true
		}
	}
	return event.SimulationEnded{}, false
}

// Save writes the buffered run through repo.
func (a *Archive) Save(ctx context.Context, repo *RunRepo, sum RunSummary) (int64, error) {
	rows, err := EncodeRecords(a.records)
	if err != nil {
		return 0, err
	}
	return repo.SaveRun(ctx, sum, rows)
}
