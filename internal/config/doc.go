// Package config provides the preference system.
//
// Preferences are key-value sections stored in TOML files and organized
// in layers, higher layers overriding lower ones key by key:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SHORTCUTS_LANGUAGE, SHORTCUTS_DEBUG, ...
//	├─────────────────────────────┤
//	│  2. User Preferences        │  ← ~/.config/shortcuts/shortcuts.toml
//	├─────────────────────────────┤
//	│  1. Default Preferences     │  ← shipped resource files (read-only)
//	└─────────────────────────────┘
//
// Reads can be restricted to the default layer ("default-only"), which
// backs "restore defaults". All writes go to the user layer; Save writes
// it back to the user file.
//
// # Sections
//
//	["shortcuts_vA1.0:"]          # root module shortcuts
//	"Edit/Copy" = "Ctrl+C"
//
//	["shortcuts_vA1.0:Paint"]     # module "Paint"
//	"Tools/Brush" = "B"
//	"Tools/Eraser" = ""           # disabled
//
//	[language]
//	language = "fr"
//
//	[action_assets]               # asset files, loaded in key order
//	"10_base" = "${APP_ROOT}/resources/assets.json"
//
//	[action_id_mutations]         # action ID rename tables
//	"1" = "${APP_ROOT}/resources/mutations.json"
//
// # Sub-packages
//
//   - loader: file system abstraction, TOML loading with @include, environment variables
//   - layer: layer management and merging
//   - watcher: file watching for live reload
//   - notify: change notification and observer pattern
package config
