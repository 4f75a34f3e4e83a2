package sqlite

// schemaSQL defines the three independently keyed collections. Tasks
// partition by owner; notifications by recipient with a secondary index on
// task id for teardown purges; group notifications by group. Set-valued
// task columns are stored as sorted JSON string arrays.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS task (
	uid        TEXT NOT NULL,
	id         TEXT NOT NULL,
	gid        TEXT NOT NULL DEFAULT '',
	status     INTEGER NOT NULL DEFAULT 0,
	kind       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	duedate    INTEGER NOT NULL DEFAULT 0,
	threshold  INTEGER NOT NULL DEFAULT 0,
	approvers  TEXT NOT NULL DEFAULT '[]',
	assignees  TEXT NOT NULL DEFAULT '[]',
	resolved   TEXT NOT NULL DEFAULT '[]',
	rejected   TEXT NOT NULL DEFAULT '[]',
	message    TEXT NOT NULL DEFAULT '',
	payload    BLOB,
	PRIMARY KEY (uid, id)
);

CREATE INDEX IF NOT EXISTS idx_task_uid_status ON task(uid, status, id);

CREATE TABLE IF NOT EXISTS notification (
	uid     TEXT NOT NULL,
	tid     TEXT NOT NULL,
	sender  TEXT NOT NULL,
	status  INTEGER NOT NULL DEFAULT 0,
	message TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (uid, tid, sender)
);

CREATE INDEX IF NOT EXISTS idx_notification_tid ON notification(tid);

CREATE TABLE IF NOT EXISTS group_notification (
	gid    TEXT NOT NULL,
	tid    TEXT NOT NULL,
	sender TEXT NOT NULL,
	role   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (gid, tid, sender)
);
`
