package setup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"golang.org/x/exp/slices"
)

// Document is the setup object: one array per record type. Collections the
// generator does not know about are kept in Extra. A document read from JSON
// also remembers its key order and the fields of every record, so writing it
// back changes only what was modified.
type Document struct {
	Setup      []Setup
	Layer      []Layer
	Slot       []Slot
	Scin       []Scintillator
	Matrix     []Matrix
	PM         []PM
	Channel    []Channel
	DataSource []DataSource
	DataModule []DataModule
	Extra      map[string]json.RawMessage

	order   []string
	records map[string][]rawRecord
}

type collection struct {
	key    string
	isNil  func() bool
	decode func(data []byte) ([]rawRecord, error)
	encode func(raw []rawRecord) ([]byte, error)
}

func bind[T any](key string, records *[]T) collection {
	return collection{
		key:   key,
		isNil: func() bool { return *records == nil },
		decode: func(data []byte) ([]rawRecord, error) {
			decoded, raw, err := decodeRecords[T](data)
			if err != nil {
				return nil, err
			}
			*records = decoded
			return raw, nil
		},
		encode: func(raw []rawRecord) ([]byte, error) {
			return encodeRecords(*records, raw)
		},
	}
}

// collections lists the known arrays in generation order.
func (d *Document) collections() []collection {
	return []collection{
		bind("setup", &d.Setup),
		bind("layer", &d.Layer),
		bind("slot", &d.Slot),
		bind("scin", &d.Scin),
		bind("matrix", &d.Matrix),
		bind("pm", &d.PM),
		bind("channel", &d.Channel),
		bind("data_source", &d.DataSource),
		bind("data_module", &d.DataModule),
	}
}

// forgetRecords drops the input fields remembered for the given collections,
// for when their records are replaced rather than updated.
func (d *Document) forgetRecords(keys ...string) {
	for _, key := range keys {
		delete(d.records, key)
	}
}

func (d *Document) UnmarshalJSON(data []byte) error {
	members, err := decodeObject(data)
	if err != nil {
		return err
	}
	*d = Document{}
	known := make(map[string]collection)
	for _, c := range d.collections() {
		known[c.key] = c
	}
	for _, m := range members {
		d.order = append(d.order, m.Key)
		c, ok := known[m.Key]
		if !ok {
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[m.Key] = m.Value
			continue
		}
		raw, err := c.decode(m.Value)
		if err != nil {
			return fmt.Errorf("error decoding %q: %w", m.Key, err)
		}
		if raw != nil {
			if d.records == nil {
				d.records = make(map[string][]rawRecord)
			}
			d.records[m.Key] = raw
		}
	}
	return nil
}

// MarshalJSON writes the keys in the order they were read. Known collections
// the input did not have follow in generation order, then the remaining
// extra ones sorted by key. Nil collections are left out.
func (d Document) MarshalJSON() ([]byte, error) {
	known := make(map[string]collection)
	keys := slices.Clone(d.order)
	for _, c := range d.collections() {
		known[c.key] = c
		keys = append(keys, c.key)
	}
	extraKeys := make([]string, 0, len(d.Extra))
	for key := range d.Extra {
		extraKeys = append(extraKeys, key)
	}
	slices.Sort(extraKeys)
	keys = append(keys, extraKeys...)

	members := make([]member, 0, len(keys))
	written := make(map[string]bool, len(keys))
	for _, key := range keys {
		if written[key] {
			continue
		}
		written[key] = true
		if c, ok := known[key]; ok {
			if c.isNil() {
				continue
			}
			encoded, err := c.encode(d.records[key])
			if err != nil {
				return nil, fmt.Errorf("error encoding %q: %w", key, err)
			}
			members = append(members, member{Key: key, Value: encoded})
			continue
		}
		if value, ok := d.Extra[key]; ok {
			members = append(members, member{Key: key, Value: value})
		}
	}
	return encodeObject(members)
}

// SetupFile is the on-disk form: setup objects keyed by setup id. Key selects
// the one held in Document; the other entries are written back untouched and
// in their original order.
type SetupFile struct {
	Key      string
	Document *Document

	members []member
}

func (f SetupFile) MarshalJSON() ([]byte, error) {
	document, err := json.Marshal(f.Document)
	if err != nil {
		return nil, err
	}
	members := make([]member, 0, len(f.members)+1)
	replaced := false
	for _, m := range f.members {
		if m.Key == f.Key {
			m.Value = document
			replaced = true
		}
		members = append(members, m)
	}
	if !replaced {
		members = append(members, member{Key: f.Key, Value: document})
	}
	return encodeObject(members)
}

// DecodeSetupFile selects the setup object stored under key. With an empty
// key the document must hold exactly one setup.
func DecodeSetupFile(data []byte, key string) (SetupFile, error) {
	members, err := decodeObject(data)
	if err != nil {
		return SetupFile{}, fmt.Errorf("error decoding setup document: %w", err)
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	slices.Sort(keys)

	if key == "" {
		if len(keys) != 1 {
			return SetupFile{}, &ErrSetupKey{Found: keys}
		}
		key = keys[0]
	}
	raw, ok := memberValues(members)[key]
	if !ok {
		return SetupFile{}, &ErrSetupKey{Requested: key, Found: keys}
	}

	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return SetupFile{}, fmt.Errorf("error decoding setup %q: %w", key, err)
	}
	return SetupFile{Key: key, Document: doc, members: members}, nil
}

// ReadSetupFile loads a setup document from disk. See DecodeSetupFile for the
// meaning of key.
func ReadSetupFile(filename string, key string) (SetupFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return SetupFile{}, &ErrOpenFile{Filename: filename, Err: err}
	}
	file, err := DecodeSetupFile(data, key)
	if err != nil {
		return SetupFile{}, fmt.Errorf("%s: %w", filename, err)
	}
	if verbosity > 0 {
		message := fmt.Sprintf("Read setup %s from %s: %d channels", file.Key, filename, len(file.Document.Channel))
		logger.Info(message, "document")
	}
	return file, nil
}

// WriteSetupFile writes the document as indented JSON. The file is replaced
// atomically, so readers never see a partial document.
func WriteSetupFile(filename string, file SetupFile) error {
	pendingFile, err := renameio.NewPendingFile(filename, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %q: %w", filename, err)
	}
	defer func() {
		// no-op once the file has been committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Error(fmt.Sprintf("cleanup pending file %q: %v", filename, err))
		}
	}()

	encoder := json.NewEncoder(pendingFile)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("write setup %s: %w", file.Key, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %q: %w", filename, err)
	}
	if verbosity > 0 {
		logger.Info(fmt.Sprintf("Setup %s written to %s", file.Key, filename), "document")
	}
	return nil
}
