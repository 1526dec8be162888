package mcpserver

// DocumentFormatContract describes the three canonical serializations
// that LLM consumers should follow when creating or converting documents.
const DocumentFormatContract = `# revw Document Format Contract

Every document is two ordered sections of records. OUTSIDE holds external
references (name, context, optional url, optional percentage). INSIDE holds
dated notes (date, context). Record order within a section is meaningful and
must be preserved. The file extension picks the serialization.

## Markdown (` + "`" + `.md` + "`" + `)

` + "```" + `markdown
## OUTSIDE

### Rust
Context lines describing the reference.

**URL:** https://rust-lang.org

**Percentage:** 40%

## INSIDE

### 2025-01-20 09:30:00
Note text, possibly spanning
several lines.
` + "```" + `

1. **Section headers** are ` + "`" + `## OUTSIDE` + "`" + ` and ` + "`" + `## INSIDE` + "`" + `, each at most once,
   OUTSIDE before INSIDE. An empty section may be omitted entirely.
2. **Every record starts with a ` + "`" + `### ` + "`" + ` heading**: the name for outside
   records, the date for inside records.
3. **Marker lines** ` + "`" + `**URL:**` + "`" + ` and ` + "`" + `**Percentage:**` + "`" + ` belong to the preceding
   record. Percentage is an integer 0-100 followed by ` + "`" + `%` + "`" + `.

## JSON (` + "`" + `.json` + "`" + `)

` + "```" + `json
{
  "outside": [
    {"name": "Rust", "context": "Context text.", "url": "https://rust-lang.org", "percentage": 40}
  ],
  "inside": [
    {"date": "2025-01-20 09:30:00", "context": "Note text."}
  ]
}
` + "```" + `

1. **Both keys are required**, each an array (empty is fine).
2. **Omit ` + "`" + `percentage` + "`" + ` (or use null) when it is absent.** Absent is distinct
   from 0.
3. Unknown keys are ignored on read and never written.

## TOON (` + "`" + `.toon` + "`" + `)

` + "```" + `
outside[1]{name,context,url,percentage}:
  Rust,"borrow checker, lifetimes",https://rust-lang.org,40

inside[1]{date,context}:
  2025-01-20 09:30:00,Note text.
` + "```" + `

1. **The bracketed count must match the number of rows exactly.**
2. **Quote a value** when it contains a comma, quote, or newline, or has
   leading/trailing whitespace; double any quotes inside it.
3. **An empty percentage field means absent.**

## General rules

- Dates use ` + "`" + `YYYY-MM-DD HH:MM:SS` + "`" + ` (24-hour clock) and new notes are
  prepended, newest first.
- Encoding is UTF-8.
- A document that fails to parse is rejected whole; there are no partial
  reads or writes.
`
