package sqlite

const (
	TransactionsTable = "transacciones"
	GoalsTable        = "objetivos"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transacciones (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    fecha     TEXT    NOT NULL,
    concepto  TEXT    NOT NULL,
    importe   REAL    NOT NULL,
    categoria TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS objetivos (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    nombre           TEXT    NOT NULL,
    importe_objetivo REAL    NOT NULL,
    importe_actual   REAL    NOT NULL DEFAULT 0,
    fecha_limite     DATE    NOT NULL
);
`
