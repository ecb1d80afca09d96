package store

// Schema v1 - Initial database schema
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Registered scan roots (local directory or WebDAV remote)
CREATE TABLE IF NOT EXISTS roots (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  path TEXT NOT NULL DEFAULT '',
  base_url TEXT NOT NULL DEFAULT '',
  username TEXT NOT NULL DEFAULT '',
  password TEXT NOT NULL DEFAULT '',
  total_files INTEGER NOT NULL DEFAULT 0,
  track_count INTEGER NOT NULL DEFAULT 0,
  last_sync INTEGER NOT NULL DEFAULT 0,
  connected INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Content-addressed track cache, keyed by fingerprint (name + "-" + size)
CREATE TABLE IF NOT EXISTS tracks (
  fingerprint TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  artist TEXT NOT NULL DEFAULT '',
  album TEXT NOT NULL DEFAULT '',
  year INTEGER NOT NULL DEFAULT 0,
  genre TEXT NOT NULL DEFAULT '',
  duration_ms INTEGER NOT NULL DEFAULT 0,
  bitrate INTEGER NOT NULL DEFAULT 0,
  cover BLOB,
  cover_mime TEXT NOT NULL DEFAULT '',
  root_id TEXT NOT NULL REFERENCES roots(id),
  file_name TEXT NOT NULL,
  rel_path TEXT NOT NULL DEFAULT '',
  size_bytes INTEGER NOT NULL DEFAULT 0,
  last_modified INTEGER NOT NULL DEFAULT 0,
  date_added INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist);
CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album);
CREATE INDEX IF NOT EXISTS idx_tracks_root_id ON tracks(root_id);
CREATE INDEX IF NOT EXISTS idx_tracks_date_added ON tracks(date_added);

-- Supplemental artist images discovered during scans (last writer wins)
CREATE TABLE IF NOT EXISTS artist_images (
  name TEXT PRIMARY KEY,
  image BLOB NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT 0
);

-- Playlists hold ordered fingerprints, never track references
CREATE TABLE IF NOT EXISTS playlists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS playlist_items (
  playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
  fingerprint TEXT NOT NULL,
  position INTEGER NOT NULL,
  PRIMARY KEY (playlist_id, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_playlist_items_position ON playlist_items(playlist_id, position);

-- Playback history, also fingerprint-keyed
CREATE TABLE IF NOT EXISTS history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fingerprint TEXT NOT NULL,
  played_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_played_at ON history(played_at);
`
