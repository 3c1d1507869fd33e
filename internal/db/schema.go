package db

// SchemaSQL defines the chat history schema. One row per message; seq
// orders messages within a session.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS role ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS seq ON message TYPE int;
    DEFINE FIELD IF NOT EXISTS created_at ON message TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS message_session ON message FIELDS session;
    DEFINE INDEX IF NOT EXISTS message_session_seq ON message FIELDS session, seq;
`
