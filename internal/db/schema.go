package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- THREAD TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS thread SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON thread TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON thread TYPE string;
    DEFINE FIELD IF NOT EXISTS last_message_at ON thread TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS created_at ON thread TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON thread TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS thread_user ON thread FIELDS user_id;

    -- ==========================================================================
    -- MESSAGE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS thread ON message TYPE record<thread>;
    DEFINE FIELD IF NOT EXISTS role ON message TYPE string ASSERT $value IN ["user", "assistant"];
    DEFINE FIELD IF NOT EXISTS content ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS emotion ON message TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS audio_url ON message TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS metadata ON message TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created_at ON message TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS message_thread ON message FIELDS thread;
    DEFINE INDEX IF NOT EXISTS message_created ON message FIELDS created_at;

    -- ==========================================================================
    -- MEMORY TABLE (durable user facts, independent of thread lifecycle)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS memory SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON memory TYPE string;
    DEFINE FIELD IF NOT EXISTS summary ON memory TYPE string;
    DEFINE FIELD IF NOT EXISTS context ON memory TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS importance_score ON memory TYPE int DEFAULT 1
        ASSERT $value >= 1 AND $value <= 10;
    DEFINE FIELD IF NOT EXISTS created_at ON memory TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON memory TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS memory_user ON memory FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS memory_importance ON memory FIELDS user_id, importance_score;
`
