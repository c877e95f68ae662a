package mcpserver

// NoteFormatContract describes the on-disk note and task formats for MCP
// consumers. The structure must match what the vault already contains.
const NoteFormatContract = `# Capture Note Format

## Inbox note

Every capture lands as a timestamped Markdown note in the inbox folder:

` + "```" + `markdown
---
dateCreated: 2026-02-15T14:30:05+01:00
source: telegram
type: text
topics:
tags:
  - inbox
aliases:
---

Body text.

![[+/attachments/tg-2026-02-15-143005.jpg]]
` + "```" + `

The filename is the creation time ("2026-02-15 1430.md"); a same-minute
collision falls back to seconds resolution.

## Daily note

With daily mode active, captures append timestamped sections to one file
per day instead:

` + "```" + `markdown
---
dateCreated: 2026-02-15
tags:
  - k/daily
---

## 14:30
First capture of the day.

## 15:45
Second capture.
` + "```" + `

## Task lines

Tasks live one per line in the task inbox (and anywhere else in the vault):

` + "```" + `markdown
- [ ] #to/do Buy milk 📅 2026-02-20
- [ ] #to/follow-up Call John
- [x] #to/do Ship the report ✅ 2026-02-14
` + "```" + `

The due marker is 📅 followed by YYYY-MM-DD; completion appends ✅ and the
completion date.
`
