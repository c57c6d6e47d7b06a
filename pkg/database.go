package setup

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	_ "modernc.org/sqlite"
)

// rows per INSERT statement
const insertBatchSize = 200

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	return sqlx.Connect("mysql", mysqlDSN(user, pass, host, dbname))
}

func mysqlDSN(user string, pass string, host string, dbname string) string {
	port := "3306"
	config := mysql.NewConfig()
	config.User = user
	config.Passwd = pass
	config.Net = "tcp"
	config.Addr = net.JoinHostPort(host, port)
	config.DBName = dbname
	config.ParseTime = true
	return config.FormatDSN()
}

// OpenDatabase connects to the database selected in the configuration:
// MySQL, or a local SQLite file.
func OpenDatabase(config Configuration) (*sqlx.DB, error) {
	switch config.DBDriver {
	case "mysql":
		return ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	case "sqlite":
		return OpenSQLite(config.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", config.DBDriver)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file. Use
// ":memory:" for a private in-memory database.
func OpenSQLite(path string) (*sqlx.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// in-memory databases are per connection
	sqlDB.SetMaxOpenConns(1)
	db := sqlx.NewDb(sqlDB, "sqlite3")
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Setups (
		id INTEGER NOT NULL PRIMARY KEY,
		description VARCHAR(255) NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS Layers (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		radius DOUBLE NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS Slots (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		layer_id INTEGER NOT NULL,
		theta DOUBLE NOT NULL,
		type VARCHAR(32) NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS Scintillators (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		slot_id INTEGER NOT NULL,
		height INTEGER NOT NULL,
		width INTEGER NOT NULL,
		length INTEGER NOT NULL,
		xcenter DOUBLE NOT NULL,
		ycenter DOUBLE NOT NULL,
		zcenter DOUBLE NOT NULL,
		rot_x DOUBLE NOT NULL,
		rot_y DOUBLE NOT NULL,
		rot_z DOUBLE NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS Matrices (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		side VARCHAR(1) NOT NULL,
		scin_id INTEGER NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS Photomultipliers (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		description VARCHAR(255) NOT NULL,
		pos_in_matrix INTEGER NOT NULL,
		matrix_id INTEGER NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS Channels (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		thr_num INTEGER NOT NULL,
		pm_id INTEGER NOT NULL,
		thr_val INTEGER NOT NULL,
		data_module_id INTEGER NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS DataSources (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		type VARCHAR(64) NOT NULL,
		trbnet_address VARCHAR(32) NOT NULL,
		hub_address VARCHAR(32) NOT NULL,
		PRIMARY KEY (setup_id, id))`,
	`CREATE TABLE IF NOT EXISTS DataModules (
		setup_id INTEGER NOT NULL,
		id INTEGER NOT NULL,
		type VARCHAR(64) NOT NULL,
		trbnet_address VARCHAR(32) NOT NULL,
		channels_number INTEGER NOT NULL,
		channels_offset INTEGER NOT NULL,
		data_source_id INTEGER NOT NULL,
		PRIMARY KEY (setup_id, id))`,
}

// Records stored per setup carry the setup id as partition column.
type slotRow struct {
	SetupID int `db:"setup_id"`
	Slot
}

type scinRow struct {
	SetupID int `db:"setup_id"`
	Scintillator
}

type matrixRow struct {
	SetupID int `db:"setup_id"`
	Matrix
}

type pmRow struct {
	SetupID int `db:"setup_id"`
	PM
}

type channelRow struct {
	SetupID int `db:"setup_id"`
	Channel
}

type dataSourceRow struct {
	SetupID int `db:"setup_id"`
	DataSource
}

type dataModuleRow struct {
	SetupID int `db:"setup_id"`
	DataModule
}

func CreateTables(ctx context.Context, db *sqlx.DB) error {
	for _, statement := range schema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("error creating tables: %w", err)
		}
	}
	return nil
}

type tableInsert struct {
	table string
	query string
	rows  func() []interface{}
}

// SaveSetup stores the document, replacing every row previously stored for
// the same setup id, in a single transaction.
func SaveSetup(ctx context.Context, db *sqlx.DB, doc *Document) error {
	if len(doc.Setup) != 1 {
		return fmt.Errorf("expected one setup record, found %d", len(doc.Setup))
	}
	setupID := doc.Setup[0].ID

	if err := CreateTables(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM Setups WHERE id = ?", setupID); err != nil {
		return fmt.Errorf("error deleting setup %d: %w", setupID, err)
	}
	for _, table := range []string{"Layers", "Slots", "Scintillators", "Matrices", "Photomultipliers",
		"Channels", "DataSources", "DataModules"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE setup_id = ?", table)
		if _, err := tx.ExecContext(ctx, query, setupID); err != nil {
			return fmt.Errorf("error deleting setup %d from %s: %w", setupID, table, err)
		}
	}

	inserts := []tableInsert{
		{"Setups", "INSERT INTO Setups (id, description) VALUES (:id, :description)",
			func() []interface{} { return toRows(doc.Setup, func(r Setup) interface{} { return r }) }},
		{"Layers", "INSERT INTO Layers (setup_id, id, name, radius) VALUES (:setup_id, :id, :name, :radius)",
			func() []interface{} { return toRows(doc.Layer, func(r Layer) interface{} { return r }) }},
		{"Slots", "INSERT INTO Slots (setup_id, id, layer_id, theta, type) VALUES (:setup_id, :id, :layer_id, :theta, :type)",
			func() []interface{} {
				return toRows(doc.Slot, func(r Slot) interface{} { return slotRow{setupID, r} })
			}},
		{"Scintillators", `INSERT INTO Scintillators (setup_id, id, slot_id, height, width, length,
			xcenter, ycenter, zcenter, rot_x, rot_y, rot_z) VALUES (:setup_id, :id, :slot_id, :height, :width,
			:length, :xcenter, :ycenter, :zcenter, :rot_x, :rot_y, :rot_z)`,
			func() []interface{} {
				return toRows(doc.Scin, func(r Scintillator) interface{} { return scinRow{setupID, r} })
			}},
		{"Matrices", "INSERT INTO Matrices (setup_id, id, side, scin_id) VALUES (:setup_id, :id, :side, :scin_id)",
			func() []interface{} {
				return toRows(doc.Matrix, func(r Matrix) interface{} { return matrixRow{setupID, r} })
			}},
		{"Photomultipliers", `INSERT INTO Photomultipliers (setup_id, id, description, pos_in_matrix, matrix_id)
			VALUES (:setup_id, :id, :description, :pos_in_matrix, :matrix_id)`,
			func() []interface{} { return toRows(doc.PM, func(r PM) interface{} { return pmRow{setupID, r} }) }},
		{"Channels", `INSERT INTO Channels (setup_id, id, thr_num, pm_id, thr_val, data_module_id)
			VALUES (:setup_id, :id, :thr_num, :pm_id, :thr_val, :data_module_id)`,
			func() []interface{} {
				return toRows(doc.Channel, func(r Channel) interface{} { return channelRow{setupID, r} })
			}},
		{"DataSources", `INSERT INTO DataSources (setup_id, id, type, trbnet_address, hub_address)
			VALUES (:setup_id, :id, :type, :trbnet_address, :hub_address)`,
			func() []interface{} {
				return toRows(doc.DataSource, func(r DataSource) interface{} { return dataSourceRow{setupID, r} })
			}},
		{"DataModules", `INSERT INTO DataModules (setup_id, id, type, trbnet_address, channels_number,
			channels_offset, data_source_id) VALUES (:setup_id, :id, :type, :trbnet_address, :channels_number,
			:channels_offset, :data_source_id)`,
			func() []interface{} {
				return toRows(doc.DataModule, func(r DataModule) interface{} { return dataModuleRow{setupID, r} })
			}},
	}

	for _, insert := range inserts {
		rows := insert.rows()
		for start := 0; start < len(rows); start += insertBatchSize {
			end := min(start+insertBatchSize, len(rows))
			if _, err := tx.NamedExecContext(ctx, insert.query, rows[start:end]); err != nil {
				return fmt.Errorf("error inserting into %s: %w", insert.table, err)
			}
		}
		if verbosity > 1 {
			message := fmt.Sprintf("%d rows written to %s", len(rows), insert.table)
			logger.Info(message, "database")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing setup %d: %w", setupID, err)
	}
	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Setup %d stored in database", setupID), "database")
	}
	return nil
}

func toRows[T any](records []T, row func(T) interface{}) []interface{} {
	rows := make([]interface{}, len(records))
	for i, record := range records {
		rows[i] = row(record)
	}
	return rows
}

// LoadSetup reads back a setup stored with SaveSetup. Records come ordered
// by id.
func LoadSetup(ctx context.Context, db *sqlx.DB, setupID int) (*Document, error) {
	doc := &Document{}
	if err := db.SelectContext(ctx, &doc.Setup, "SELECT id, description FROM Setups WHERE id = ?", setupID); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	if len(doc.Setup) == 0 {
		return nil, fmt.Errorf("setup %d: %w", setupID, sql.ErrNoRows)
	}

	var (
		slots       []slotRow
		scins       []scinRow
		matrices    []matrixRow
		pms         []pmRow
		channels    []channelRow
		dataSources []dataSourceRow
		dataModules []dataModuleRow
	)
	queries := []struct {
		dest  interface{}
		table string
	}{
		{&doc.Layer, "Layers"},
		{&slots, "Slots"},
		{&scins, "Scintillators"},
		{&matrices, "Matrices"},
		{&pms, "Photomultipliers"},
		{&channels, "Channels"},
		{&dataSources, "DataSources"},
		{&dataModules, "DataModules"},
	}
	for _, q := range queries {
		query := fmt.Sprintf("SELECT * FROM %s WHERE setup_id = ? ORDER BY id", q.table)
		if verbosity > 2 {
			logger.Info(fmt.Sprintf("Query: %s", query), "database")
		}
		if err := db.SelectContext(ctx, q.dest, query, setupID); err != nil {
			return nil, fmt.Errorf("error querying %s: %w", q.table, err)
		}
	}

	doc.Slot = fromRows(slots, func(r slotRow) Slot { return r.Slot })
	doc.Scin = fromRows(scins, func(r scinRow) Scintillator { return r.Scintillator })
	doc.Matrix = fromRows(matrices, func(r matrixRow) Matrix { return r.Matrix })
	doc.PM = fromRows(pms, func(r pmRow) PM { return r.PM })
	doc.Channel = fromRows(channels, func(r channelRow) Channel { return r.Channel })
	if len(dataSources) > 0 {
		doc.DataSource = fromRows(dataSources, func(r dataSourceRow) DataSource { return r.DataSource })
		doc.DataModule = fromRows(dataModules, func(r dataModuleRow) DataModule { return r.DataModule })
	}
	return doc, nil
}

func fromRows[R any, T any](rows []R, record func(R) T) []T {
	records := make([]T, len(rows))
	for i, row := range rows {
		records[i] = record(row)
	}
	return records
}
