package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dori/tablero/internal/model"
	"github.com/google/uuid"
)

// ErrUnrecognized is returned when raw data matches none of the known shapes
var ErrUnrecognized = errors.New("storage: unrecognized board format")

// Format identifies which shape a stored record had
type Format int

const (
	FormatUnknown Format = iota
	// FormatTaskList is the oldest shape: a bare array of task records
	FormatTaskList
	// FormatStatusMap maps each column name to a list of plain task texts
	FormatStatusMap
	// FormatCurrent is {tasks, members, users}
	FormatCurrent
)

func (f Format) String() string {
	switch f {
	case FormatTaskList:
		return "task-list"
	case FormatStatusMap:
		return "status-map"
	case FormatCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Legacy reports whether records in this format must be rewritten on load
func (f Format) Legacy() bool {
	return f == FormatTaskList || f == FormatStatusMap
}

// Document is the result of decoding a stored or imported record
type Document struct {
	Format Format
	State  model.State
}

var api = sonic.ConfigStd

// Decoder turns raw records into board state. Now and NewID fill in the
// values legacy records lack.
type Decoder struct {
	Now   func() time.Time
	NewID func() string
}

// NewDecoder returns a decoder using the wall clock and random UUIDs
func NewDecoder() Decoder {
	return Decoder{Now: time.Now, NewID: uuid.NewString}
}

type matcher func(d Decoder, raw []byte) (Document, bool)

// Shapes are tried in order; the first match wins.
var matchers = []matcher{
	matchTaskList,
	matchStatusMap,
	matchCurrent,
}

// Decode classifies raw into one of the known formats and normalizes it
// into the current schema.
func (d Decoder) Decode(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !api.Valid(raw) {
		return Document{Format: FormatUnknown}, ErrUnrecognized
	}
	for _, m := range matchers {
		if doc, ok := m(d, raw); ok {
			return doc, nil
		}
	}
	return Document{Format: FormatUnknown}, ErrUnrecognized
}

func (d Decoder) loadTime() time.Time {
	return model.Timestamp(d.Now())
}

func matchTaskList(d Decoder, raw []byte) (Document, bool) {
	if raw[0] != '[' {
		return Document{}, false
	}
	var items []json.RawMessage
	if err := api.Unmarshal(raw, &items); err != nil {
		return Document{}, false
	}

	now := d.loadTime()
	state := emptyState()
	for _, item := range items {
		rec, ok := decodeTaskRecord(item)
		if !ok {
			continue
		}
		state.Tasks = append(state.Tasks, model.Task{
			ID:     d.idOr(string(rec.ID)),
			Text:   string(rec.Text),
			Date:   now,
			Status: statusOr(string(rec.Status)),
		})
	}
	return Document{Format: FormatTaskList, State: state}, true
}

// statusKeys lists, per pipeline stage, the object keys that mark a
// status-map record.
var statusKeys = [][]string{
	{"pendiente", string(model.StatusPending)},
	{"proceso", string(model.StatusInProgress)},
	{"completo", string(model.StatusDone)},
}

func matchStatusMap(d Decoder, raw []byte) (Document, bool) {
	fields, ok := decodeObject(raw)
	if !ok {
		return Document{}, false
	}
	if _, hasTasks := fields["tasks"]; hasTasks {
		return Document{}, false
	}

	found := false
	now := d.loadTime()
	state := emptyState()
	for i, keys := range statusKeys {
		for _, k := range keys {
			v, present := fields[k]
			if !present {
				continue
			}
			texts, ok := decodeList(v)
			if !ok {
				return Document{}, false
			}
			found = true
			for _, t := range texts {
				var text flexString
				if err := api.Unmarshal(t, &text); err != nil || text == "" {
					continue
				}
				state.Tasks = append(state.Tasks, model.Task{
					ID:     d.NewID(),
					Text:   string(text),
					Date:   now,
					Status: model.Pipeline[i],
				})
			}
		}
	}
	if !found {
		return Document{}, false
	}
	return Document{Format: FormatStatusMap, State: state}, true
}

func matchCurrent(d Decoder, raw []byte) (Document, bool) {
	fields, ok := decodeObject(raw)
	if !ok {
		return Document{}, false
	}
	// A current record always carries a tasks array; members and users
	// may be missing or null.
	tasksRaw, hasTasks := fields["tasks"]
	if !hasTasks || !isArray(tasksRaw) {
		return Document{}, false
	}
	membersRaw := fields["members"]
	usersRaw := fields["users"]

	tasks, ok := decodeList(tasksRaw)
	if !ok {
		return Document{}, false
	}
	members, ok := decodeList(membersRaw)
	if !ok {
		return Document{}, false
	}
	users, ok := decodeList(usersRaw)
	if !ok {
		return Document{}, false
	}

	now := d.loadTime()
	state := emptyState()
	for _, item := range tasks {
		rec, ok := decodeTaskRecord(item)
		if !ok {
			continue
		}
		date := now
		if t, err := time.Parse(time.RFC3339Nano, string(rec.Date)); err == nil {
			date = model.Timestamp(t)
		}
		state.Tasks = append(state.Tasks, model.Task{
			ID:     d.idOr(string(rec.ID)),
			Text:   string(rec.Text),
			User:   string(rec.User),
			Date:   date,
			Status: statusOr(string(rec.Status)),
		})
	}

	for _, item := range members {
		name, _, ok := decodeNamed(item)
		if !ok || state.FindMember(name) >= 0 {
			continue
		}
		state.Members = append(state.Members, model.NewMember(name))
	}

	for _, item := range users {
		name, password, ok := decodeNamed(item)
		if !ok || state.FindUser(name) >= 0 {
			continue
		}
		state.Users = append(state.Users, model.User{Name: name, Password: password})
	}

	return Document{Format: FormatCurrent, State: state}, true
}

// Encode serializes the state compactly for storage
func Encode(s model.State) ([]byte, error) {
	return api.Marshal(withEmptyLists(s))
}

// EncodeIndent serializes the state for an export file
func EncodeIndent(s model.State) ([]byte, error) {
	return api.MarshalIndent(withEmptyLists(s), "", "  ")
}

// withEmptyLists makes nil slices encode as [] rather than null
func withEmptyLists(s model.State) model.State {
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.Members == nil {
		s.Members = []model.Member{}
	}
	if s.Users == nil {
		s.Users = []model.User{}
	}
	return s
}

func emptyState() model.State {
	return model.State{
		Tasks:   []model.Task{},
		Members: []model.Member{},
		Users:   []model.User{},
	}
}

func (d Decoder) idOr(id string) string {
	if strings.TrimSpace(id) == "" {
		return d.NewID()
	}
	return id
}

func statusOr(s string) model.Status {
	if st, ok := model.ParseStatus(s); ok {
		return st
	}
	return model.StatusPending
}

// taskRecord is a leniently typed task as found in any stored shape
type taskRecord struct {
	ID     flexString `json:"id"`
	Text   flexString `json:"text"`
	User   flexString `json:"user"`
	Date   flexString `json:"date"`
	Status flexString `json:"status"`
}

func decodeTaskRecord(raw json.RawMessage) (taskRecord, bool) {
	var rec taskRecord
	if len(raw) == 0 || raw[0] != '{' {
		return rec, false
	}
	if err := api.Unmarshal(raw, &rec); err != nil {
		return rec, false
	}
	if rec.ID == "" && rec.Text == "" {
		return rec, false
	}
	return rec, true
}

type namedRecord struct {
	Name     flexString `json:"name"`
	Password flexString `json:"password"`
}

// decodeNamed accepts either a bare name string or a {name, ...} object
func decodeNamed(raw json.RawMessage) (name, password string, ok bool) {
	if len(raw) == 0 {
		return "", "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := api.Unmarshal(raw, &s); err != nil {
			return "", "", false
		}
		name = s
	case '{':
		var rec namedRecord
		if err := api.Unmarshal(raw, &rec); err != nil {
			return "", "", false
		}
		name, password = string(rec.Name), string(rec.Password)
	default:
		return "", "", false
	}
	name = strings.TrimSpace(name)
	return name, password, name != ""
}

func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	if raw[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := api.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// decodeList decodes a JSON array. A missing or null value is an empty list.
func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func decodeList(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}
	if raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := api.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// flexString decodes strings as-is, numbers as their literal text and any
// other JSON value as empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := api.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case c == '-' || (c >= '0' && c <= '9'):
		*f = flexString(b)
	default:
		*f = ""
	}
	return nil
}
