package state

import "strings"

var (
	strZeroBytes32 = strings.Repeat("0", 64)

	// table stores key-value pairs. Both key and value are a 32-byte hex
	// string without prefix '0x'. The bridge nonce lives here as a
	// fixed-width big-endian counter.
	kvTable = `CREATE TABLE IF NOT EXISTS kv (
		key CHAR(64) PRIMARY KEY NOT NULL,
		value CHAR(64) NOT NULL
	);`

	// table records every inbound source tx that has been consumed, keyed
	// by the 32-byte identifier so membership is an index lookup. The row
	// also keeps which inbound operation consumed it and the ledger height
	// at insertion; the height bounds operator-driven pruning.
	processedTable = `CREATE TABLE IF NOT EXISTS processed (
		sourceTxHash CHAR(64) PRIMARY KEY NOT NULL,
		sourceChain CHAR(64) NOT NULL,
		direction VARCHAR(8) NOT NULL,
		amount BIGINT UNSIGNED NOT NULL,
		height BIGINT UNSIGNED NOT NULL,
		CONSTRAINT chk_direction CHECK (direction IN ('release', 'mint')),
		CONSTRAINT chk_amount CHECK (amount > 0),
		CONSTRAINT chk_sourceTxHash CHECK (sourceTxHash != '` + strZeroBytes32 + `')
	);`

	// append-only journal of bridge events; relayers page through it by seq.
	eventTable = `CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		kind VARCHAR(16) NOT NULL,
		payload BLOB NOT NULL,
		height BIGINT UNSIGNED NOT NULL,
		CONSTRAINT chk_kind CHECK (kind != '')
	);`
)
