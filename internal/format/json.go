package format

import (
	"encoding/json"
	"fmt"

	"github.com/voidwyrm/revw/internal/record"
)

// Shadow types with pointer fields so that a missing key is
// distinguishable from an empty value. Percentage is the only field
// allowed to be absent or null.
type jsonOutside struct {
	Name       *string `json:"name"`
	Context    *string `json:"context"`
	URL        *string `json:"url"`
	Percentage *int    `json:"percentage"`
}

type jsonInside struct {
	Date    *string `json:"date"`
	Context *string `json:"context"`
}

type jsonDocument struct {
	Outside *[]jsonOutside `json:"outside"`
	Inside  *[]jsonInside  `json:"inside"`
}

// parseJSON decodes the JSON representation: one object with "outside"
// and "inside" array keys. Unknown keys are ignored; a missing required
// field is a FormatError naming the record.
func parseJSON(data []byte) (*record.Document, error) {
	var raw jsonDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, jsonError(data, err)
	}
	if raw.Outside == nil {
		return nil, &FormatError{Cause: `missing "outside" key`}
	}
	if raw.Inside == nil {
		return nil, &FormatError{Cause: `missing "inside" key`}
	}

	doc := record.NewDocument()
	for i, r := range *raw.Outside {
		if r.Name == nil {
			return nil, &FormatError{Cause: fmt.Sprintf(`outside[%d]: missing field "name"`, i)}
		}
		if r.Context == nil {
			return nil, &FormatError{Cause: fmt.Sprintf(`outside[%d]: missing field "context"`, i)}
		}
		if r.URL == nil {
			return nil, &FormatError{Cause: fmt.Sprintf(`outside[%d]: missing field "url"`, i)}
		}
		rec := record.OutsideRecord{Name: *r.Name, Context: *r.Context, URL: *r.URL}
		if r.Percentage != nil {
			if *r.Percentage < 0 || *r.Percentage > 100 {
				return nil, &FormatError{Cause: fmt.Sprintf("outside[%d]: percentage %d out of range 0-100", i, *r.Percentage)}
			}
			rec.Percentage = r.Percentage
		}
		doc.Outside = append(doc.Outside, rec)
	}
	for i, r := range *raw.Inside {
		if r.Date == nil {
			return nil, &FormatError{Cause: fmt.Sprintf(`inside[%d]: missing field "date"`, i)}
		}
		if r.Context == nil {
			return nil, &FormatError{Cause: fmt.Sprintf(`inside[%d]: missing field "context"`, i)}
		}
		doc.Inside = append(doc.Inside, record.InsideRecord{Date: *r.Date, Context: *r.Context})
	}
	return doc, nil
}

// jsonError converts an encoding/json failure into a FormatError with
// the byte offset the decoder reported.
func jsonError(data []byte, err error) error {
	switch e := err.(type) {
	case *json.SyntaxError:
		return errAtOffset(data, int(e.Offset), "%s", e.Error())
	case *json.UnmarshalTypeError:
		return errAtOffset(data, int(e.Offset), "unexpected %s for %q", e.Value, e.Field)
	default:
		return &FormatError{Cause: err.Error()}
	}
}

// serializeJSON encodes the document with two-space indentation.
// Absent percentages are omitted via the model's struct tags.
func serializeJSON(d *record.Document) []byte {
	out := record.Document{Outside: d.Outside, Inside: d.Inside}
	if out.Outside == nil {
		out.Outside = []record.OutsideRecord{}
	}
	if out.Inside == nil {
		out.Inside = []record.InsideRecord{}
	}
	data, _ := json.MarshalIndent(&out, "", "  ")
	return append(data, '\n')
}
