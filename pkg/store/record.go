package store

// Record is the state of one key. Payloads are opaque; a nil payload or
// error means "absent".
type Record struct {
	Status          Status
	CurrentData     any
	PreviousData    any
	CurrentError    error
	PreviousError   error
	InitialData     any
	InitialError    error
	LatestUpdatedID string
}

// Field selects record fields in a Patch.
type Field uint16

const (
	FieldStatus Field = 1 << iota
	FieldCurrentData
	FieldPreviousData
	FieldCurrentError
	FieldPreviousError
	FieldInitialData
	FieldInitialError
	FieldLatestUpdatedID

	// FieldAll selects every field.
	FieldAll = FieldStatus | FieldCurrentData | FieldPreviousData |
		FieldCurrentError | FieldPreviousError | FieldInitialData |
		FieldInitialError | FieldLatestUpdatedID
)

// Patch is a partial record: only the fields in its mask are written.
// A selected field set to nil clears that field.
//
// The zero Patch selects nothing. Build patches with the With* methods:
//
//	store.Patch{}.WithStatus(store.Success).WithCurrentData(v).WithOrigin(id)
type Patch struct {
	fields Field
	values Record
}

// FullPatch returns a patch selecting every field of rec.
func FullPatch(rec Record) Patch {
	return Patch{fields: FieldAll, values: rec}
}

// Fields returns the selected field mask.
func (p Patch) Fields() Field {
	return p.fields
}

// Has reports whether f is selected.
func (p Patch) Has(f Field) bool {
	return p.fields&f != 0
}

// Values returns the patch values. Unselected fields are zero.
func (p Patch) Values() Record {
	return p.values
}

// WithStatus selects and sets the status.
func (p Patch) WithStatus(s Status) Patch {
	p.fields |= FieldStatus
	p.values.Status = s
	return p
}

// WithCurrentData selects and sets the current data.
func (p Patch) WithCurrentData(v any) Patch {
	p.fields |= FieldCurrentData
	p.values.CurrentData = v
	return p
}

// WithPreviousData selects and sets the previous data.
func (p Patch) WithPreviousData(v any) Patch {
	p.fields |= FieldPreviousData
	p.values.PreviousData = v
	return p
}

// WithCurrentError selects and sets the current error.
func (p Patch) WithCurrentError(err error) Patch {
	p.fields |= FieldCurrentError
	p.values.CurrentError = err
	return p
}

// WithPreviousError selects and sets the previous error.
func (p Patch) WithPreviousError(err error) Patch {
	p.fields |= FieldPreviousError
	p.values.PreviousError = err
	return p
}

// WithInitialData selects and sets the initial data.
func (p Patch) WithInitialData(v any) Patch {
	p.fields |= FieldInitialData
	p.values.InitialData = v
	return p
}

// WithInitialError selects and sets the initial error.
func (p Patch) WithInitialError(err error) Patch {
	p.fields |= FieldInitialError
	p.values.InitialError = err
	return p
}

// WithOrigin selects and sets LatestUpdatedID.
func (p Patch) WithOrigin(id string) Patch {
	p.fields |= FieldLatestUpdatedID
	p.values.LatestUpdatedID = id
	return p
}

// applyTo returns base with the selected fields overwritten.
func (p Patch) applyTo(base Record) Record {
	v := p.values
	if p.Has(FieldStatus) {
		base.Status = v.Status
	}
	if p.Has(FieldCurrentData) {
		base.CurrentData = v.CurrentData
	}
	if p.Has(FieldPreviousData) {
		base.PreviousData = v.PreviousData
	}
	if p.Has(FieldCurrentError) {
		base.CurrentError = v.CurrentError
	}
	if p.Has(FieldPreviousError) {
		base.PreviousError = v.PreviousError
	}
	if p.Has(FieldInitialData) {
		base.InitialData = v.InitialData
	}
	if p.Has(FieldInitialError) {
		base.InitialError = v.InitialError
	}
	if p.Has(FieldLatestUpdatedID) {
		base.LatestUpdatedID = v.LatestUpdatedID
	}
	return base
}
