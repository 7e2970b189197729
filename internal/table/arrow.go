package table

import (
	"fmt"
	"io"
	"math"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// Schema returns the Arrow schema of the table: one nullable float64 field
// per column.
func (t *Table) Schema() *arrow.Schema {
	fields := make([]arrow.Field, t.Width())
	for i, c := range t.cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// Record builds an Arrow record of the table. NaN cells become nulls.
// The caller must Release the record.
func (t *Table) Record(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, t.Schema())
	defer b.Release()
	for i, c := range t.cols {
		fb := b.Field(i).(*array.Float64Builder)
		fb.Reserve(len(c.Values))
		for _, v := range c.Values {
			if math.IsNaN(v) {
				fb.AppendNull()
				continue
			}
			fb.Append(v)
		}
	}
	return b.NewRecord()
}

// WriteArrow writes the table as an Arrow IPC file with a single record batch.
func (t *Table) WriteArrow(w io.Writer) error {
	mem := memory.NewGoAllocator()
	rec := t.Record(mem)
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("open arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}

// ReadAtSeeker is the random-access reader the Arrow file format needs.
type ReadAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// ReadArrow reads an Arrow IPC file of float64 columns. Record batches are
// concatenated; nulls become NaN.
func ReadArrow(r ReadAtSeeker) (*Table, error) {
	mem := memory.NewGoAllocator()
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open arrow file: %w", err)
	}
	defer fr.Close()

	schema := fr.Schema()
	cols := make([][]float64, len(schema.Fields()))
	rows := 0
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("read arrow record %d: %w", i, err)
		}
		for j := range cols {
			arr, ok := rec.Column(j).(*array.Float64)
			if !ok {
				return nil, fmt.Errorf("arrow column %q: unsupported type %s", schema.Field(j).Name, rec.Column(j).DataType())
			}
			for k := 0; k < arr.Len(); k++ {
				if arr.IsNull(k) {
					cols[j] = append(cols[j], math.NaN())
					continue
				}
				cols[j] = append(cols[j], arr.Value(k))
			}
		}
		rows += int(rec.NumRows())
	}
	t := New(rows)
	for j, f := range schema.Fields() {
		if cols[j] == nil {
			cols[j] = []float64{}
		}
		if err := t.Add(f.Name, cols[j]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
