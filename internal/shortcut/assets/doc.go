// Package assets holds the display metadata of modules, folders and
// actions: per-language names and tooltips, and icon paths.
//
// Assets form one tree per module. The module root carries the assets of
// the module itself; every other node is addressed by its in-module path
// ("Tools/Brush"). Trees are arena-indexed: nodes live in a slice owned by
// the Tree, children are referenced by index and each node keeps the index
// of its parent. Item is a lightweight, non-owning handle to a node.
//
// A Store is the forest of module trees. Stores are decoded from JSON or
// YAML asset files shaped as
//
//	{
//	  "<moduleID>": {
//	    "iconPath": "...",
//	    "langDependentAssets": {"en": {"name": "...", "tooltip": "..."}},
//	    "children": {
//	      "<token>": { ...same shape..., "isAction": false }
//	    }
//	  }
//	}
//
// where a missing isAction means the node is an action. Several files are
// merged in order.
package assets
