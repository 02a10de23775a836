package surreal

// schemaSQL initializes the note and embedding tables.
const schemaSQL = `
    DEFINE TABLE IF NOT EXISTS note SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON note TYPE string;
    DEFINE FIELD IF NOT EXISTS body ON note TYPE string;
    DEFINE FIELD IF NOT EXISTS tags ON note TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS folder ON note TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS linked_titles ON note TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS ai_links ON note TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS created_at ON note TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON note TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS note_title ON note FIELDS title;
    DEFINE INDEX IF NOT EXISTS note_folder ON note FIELDS folder;
    DEFINE ANALYZER IF NOT EXISTS note_analyzer TOKENIZERS class FILTERS lowercase, ascii;
    DEFINE INDEX IF NOT EXISTS note_title_ft ON note FIELDS title FULLTEXT ANALYZER note_analyzer BM25;
    DEFINE INDEX IF NOT EXISTS note_body_ft ON note FIELDS body FULLTEXT ANALYZER note_analyzer BM25;

    DEFINE TABLE IF NOT EXISTS embedding SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS vector ON embedding TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS generated_at ON embedding TYPE datetime DEFAULT time::now();
`
