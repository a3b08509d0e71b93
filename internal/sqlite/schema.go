package sqlite

// Schema DDL. Sheets are ordered by name with seq breaking ties; items are
// ordered by position within their sheet.
const (
	createSheets = `CREATE TABLE IF NOT EXISTS sheets (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    sheet_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);`

	createSheetItems = `CREATE TABLE IF NOT EXISTS sheet_items (
    item_id TEXT PRIMARY KEY,
    sheet_id TEXT NOT NULL REFERENCES sheets(sheet_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    item_type TEXT NOT NULL,
    number_value REAL NOT NULL DEFAULT 0,
    string_value TEXT NOT NULL DEFAULT '',
    formula TEXT NOT NULL DEFAULT '',
    thousand_separator INTEGER NOT NULL DEFAULT 0,
    fraction_digits INTEGER NOT NULL DEFAULT -1,
    visible INTEGER NOT NULL DEFAULT 1
);`

	createIndexSheetsName = `CREATE INDEX IF NOT EXISTS idx_sheets_name ON sheets(name, seq);`
	createIndexItemsSheet = `CREATE INDEX IF NOT EXISTS idx_sheet_items_sheet ON sheet_items(sheet_id, position);`

	enableForeignKeys = `PRAGMA foreign_keys = ON;`
)

var schemaStatements = []string{
	enableForeignKeys,
	createSheets,
	createSheetItems,
	createIndexSheetsName,
	createIndexItemsSheet,
}
