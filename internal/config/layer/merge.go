package layer

import "github.com/dshills/shortcuts/internal/config/loader"

// Merge merges src into dst key by key. Values in src override values in
// dst; sections absent from src are kept.
func Merge(dst, src loader.Sections) loader.Sections {
	if dst == nil {
		dst = make(loader.Sections)
	}
	for name, kv := range src {
		section, ok := dst[name]
		if !ok {
			section = make(map[string]string, len(kv))
			dst[name] = section
		}
		for k, v := range kv {
			section[k] = v
		}
	}
	return dst
}

// Get retrieves a value from a section.
func Get(data loader.Sections, section, key string) (string, bool) {
	kv, ok := data[section]
	if !ok {
		return "", false
	}
	v, ok := kv[key]
	return v, ok
}

// Set sets a value in a section, creating the section if needed.
func Set(data loader.Sections, section, key, value string) {
	if data == nil {
		return
	}
	kv, ok := data[section]
	if !ok {
		kv = make(map[string]string)
		data[section] = kv
	}
	kv[key] = value
}

// Delete removes a key from a section. Empty sections are removed.
// Returns true if the key existed.
func Delete(data loader.Sections, section, key string) bool {
	kv, ok := data[section]
	if !ok {
		return false
	}
	if _, ok := kv[key]; !ok {
		return false
	}
	delete(kv, key)
	if len(kv) == 0 {
		delete(data, section)
	}
	return true
}

// DeleteSection removes a whole section. Returns true if it existed.
func DeleteSection(data loader.Sections, section string) bool {
	if _, ok := data[section]; !ok {
		return false
	}
	delete(data, section)
	return true
}
