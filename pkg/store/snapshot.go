package store

import (
	"encoding/json"
	"errors"
	"io"

	rserrors "github.com/vango-dev/renderstate/internal/errors"
)

// wireRecord is the JSON shape of a Record shared with external readers.
type wireRecord struct {
	Status          Status  `json:"status"`
	CurrentData     any     `json:"currentData"`
	PreviousData    any     `json:"previousData"`
	CurrentError    *string `json:"currentError"`
	PreviousError   *string `json:"previousError"`
	InitialData     any     `json:"initialData"`
	InitialError    *string `json:"initialError"`
	LatestUpdatedID string  `json:"latestUpdatedId"`
}

func errorText(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}

func textError(msg *string) error {
	if msg == nil {
		return nil
	}
	return errors.New(*msg)
}

// MarshalJSON encodes the record. Errors are encoded as their message.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Status:          r.Status,
		CurrentData:     r.CurrentData,
		PreviousData:    r.PreviousData,
		CurrentError:    errorText(r.CurrentError),
		PreviousError:   errorText(r.PreviousError),
		InitialData:     r.InitialData,
		InitialError:    errorText(r.InitialError),
		LatestUpdatedID: r.LatestUpdatedID,
	})
}

// UnmarshalJSON decodes a record. Payloads become generic JSON values and
// errors become plain errors carrying the encoded message.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		Status:          w.Status,
		CurrentData:     w.CurrentData,
		PreviousData:    w.PreviousData,
		CurrentError:    textError(w.CurrentError),
		PreviousError:   textError(w.PreviousError),
		InitialData:     w.InitialData,
		InitialError:    textError(w.InitialError),
		LatestUpdatedID: w.LatestUpdatedID,
	}
	return nil
}

// EncodeSnapshot writes snap as an indented JSON object keyed by record key.
func EncodeSnapshot(w io.Writer, snap map[string]Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return rserrors.New("R021").Wrap(err)
	}
	return nil
}

// DecodeSnapshot reads a JSON object of records.
func DecodeSnapshot(r io.Reader) (map[string]Record, error) {
	var snap map[string]Record
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, rserrors.FromError(err, "R020")
	}
	if snap == nil {
		snap = make(map[string]Record)
	}
	return snap, nil
}
