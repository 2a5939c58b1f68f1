// Package config provides the configuration system for mzedit.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MZEDIT_*
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/mzedit/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	ed.SetConfig(cfg)
//
// # Sub-packages
//
//   - watcher: reloads the file on change and hands the result to
//     registered handlers in order
package config
