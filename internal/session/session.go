// Package session wires a dataset, its observable list, a grouped view and
// an external cursor together from configuration. The TUI and the print
// command both drive a view through a Session.
package session

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/config"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/grouping"
	"github.com/Iron-Ham/groupview/internal/keysel"
	"github.com/Iron-Ham/groupview/internal/logging"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// Session owns everything behind one grouped view.
type Session struct {
	grouping config.GroupingConfig
	data     config.DataConfig
	logger   *logging.Logger

	accessor *rowset.RecordAccessor
	list     *rowset.List
	view     *grouping.View
	cursor   *rowset.Cursor
	watcher  *rowset.Watcher
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	hint    grouping.ScrollHint
	display grouping.DisplayFunc
}

// WithLogger sets the logger for the session and its view.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScrollHint lets the view restore the first visible row across regroups.
func WithScrollHint(h grouping.ScrollHint) Option {
	return func(o *options) { o.hint = h }
}

// WithDisplayFunc installs a header display hook on the view.
func WithDisplayFunc(fn grouping.DisplayFunc) Option {
	return func(o *options) { o.display = fn }
}

// Open loads cfg.Data.Path and builds a session over it.
func Open(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg.Data.Path == "" {
		return nil, errors.NewValidationError("a dataset path is required").WithField("data.path")
	}
	ds, err := rowset.LoadFile(cfg.Data.Path, cfg.Data.Schema)
	if err != nil {
		return nil, err
	}
	return New(ds, cfg, opts...)
}

// New builds a session over an already loaded dataset.
func New(ds *rowset.Dataset, cfg *config.Config, opts ...Option) (*Session, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}

	dir, err := grouping.ParseSortDirection(cfg.Grouping.Sort)
	if err != nil {
		return nil, err
	}
	resolver, err := newResolver(cfg.Grouping.Collation)
	if err != nil {
		return nil, err
	}

	list, err := ds.List()
	if err != nil {
		return nil, err
	}

	viewOpts := []grouping.Option{
		grouping.WithName("main"),
		grouping.WithLogger(o.logger),
		grouping.WithResolver(resolver),
		grouping.WithSortDirection(dir),
		grouping.WithAllowNewRows(cfg.Grouping.AllowNewRows),
		grouping.WithTypedKeys(cfg.Grouping.TypedKeys),
		grouping.WithStartCollapsed(cfg.Grouping.StartCollapsed),
	}
	if cfg.Grouping.NewRowsHeader != "" {
		viewOpts = append(viewOpts, grouping.WithNewRowsHeader(cfg.Grouping.NewRowsHeader))
	}
	if o.hint != nil {
		viewOpts = append(viewOpts, grouping.WithScrollHint(o.hint))
	}
	if o.display != nil {
		viewOpts = append(viewOpts, grouping.WithDisplayFunc(o.display))
	}

	view := grouping.New(viewOpts...)
	if err := view.Attach(list, ds.Accessor); err != nil {
		return nil, err
	}
	cursor := rowset.NewCursor(list)
	view.AttachCursor(cursor)

	s := &Session{
		grouping: cfg.Grouping,
		data:     cfg.Data,
		logger:   o.logger,
		accessor: ds.Accessor,
		list:     list,
		view:     view,
		cursor:   cursor,
	}
	if cfg.Grouping.Field != "" {
		if err := s.GroupBy(cfg.Grouping.Field); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func newResolver(collation string) (*compare.Resolver, error) {
	if collation == "" {
		return compare.Default(), nil
	}
	tag, err := language.Parse(collation)
	if err != nil {
		return nil, errors.NewValidationError("invalid collation").
			WithField("grouping.collation").
			WithValue(collation)
	}
	return compare.NewResolver(compare.WithCollation(tag)), nil
}

// View returns the grouped view.
func (s *Session) View() *grouping.View { return s.view }

// List returns the observable source list.
func (s *Session) List() *rowset.List { return s.list }

// Cursor returns the external cursor the view follows.
func (s *Session) Cursor() *rowset.Cursor { return s.cursor }

// Accessor returns the record accessor for the dataset schema.
func (s *Session) Accessor() *rowset.RecordAccessor { return s.accessor }

// Fields returns the dataset schema in column order.
func (s *Session) Fields() []rowset.Field { return s.accessor.Fields() }

// StartLetters returns how many leading characters keys are truncated to.
func (s *Session) StartLetters() int { return s.grouping.StartLetters }

// GroupBy groups by field, truncated to the configured start letters. An
// empty field removes grouping.
func (s *Session) GroupBy(field string) error {
	if field == "" || s.grouping.StartLetters <= 0 {
		return s.view.SetGroupField(field)
	}
	sel, err := keysel.Property(s.accessor, field)
	if err != nil {
		return err
	}
	return s.view.SetGroupKey(keysel.LeadingLetters(sel, s.grouping.StartLetters))
}

// GroupField returns the field the view is grouped by, or "".
func (s *Session) GroupField() string {
	sel := s.view.Selector()
	if sel == nil {
		return ""
	}
	if sel.Kind() == keysel.KindTransformed {
		sel = sel.Base()
	}
	return sel.Field()
}

// NextGroupField groups by the field after the current one in schema order,
// wrapping around to ungrouped after the last field.
func (s *Session) NextGroupField() error {
	fields := s.Fields()
	current := s.GroupField()
	next := ""
	if current == "" {
		if len(fields) > 0 {
			next = fields[0].Name
		}
	} else {
		for i, f := range fields {
			if f.Name == current && i+1 < len(fields) {
				next = fields[i+1].Name
				break
			}
		}
	}
	return s.GroupBy(next)
}

// MoveTo positions the view at display index i and moves the cursor to the
// same row. On a header the cursor goes to the node's first member, which
// keeps the view on the header through later regroups.
func (s *Session) MoveTo(i int) error {
	if err := s.view.SetPosition(i); err != nil {
		return err
	}
	row := s.view.CurrentRow()
	if row == nil {
		if n := s.view.CurrentNode(); n != nil {
			row = n.FirstRow()
		}
	}
	if row == nil {
		return nil
	}
	if idx := s.list.IndexOf(row); idx >= 0 && idx != s.cursor.Position() {
		return s.cursor.MoveTo(idx)
	}
	return nil
}

// AppendRow adds an empty record at the end of the source and makes it
// current.
func (s *Session) AppendRow() (rowset.Row, error) {
	row := rowset.NewRecord(nil)
	idx, err := s.list.Append(row)
	if err != nil {
		return nil, err
	}
	if err := s.cursor.MoveTo(idx); err != nil {
		return nil, err
	}
	return row, nil
}

// Reload re-reads the dataset file and replaces the source rows. Columns
// added to the file after the session opened are ignored.
func (s *Session) Reload() error {
	if s.data.Path == "" {
		return errors.NewValidationError("session has no dataset file").WithField("data.path")
	}
	ds, err := rowset.LoadFile(s.data.Path, s.data.Schema)
	if err != nil {
		return err
	}
	if len(ds.Accessor.Fields()) != len(s.accessor.Fields()) {
		s.logger.Warn("dataset schema changed on reload",
			"fields_before", len(s.accessor.Fields()),
			"fields_after", len(ds.Accessor.Fields()),
		)
	}
	if err := s.list.Replace(ds.Rows); err != nil {
		return fmt.Errorf("replace rows: %w", err)
	}
	s.logger.Info("dataset reloaded", "rows", len(ds.Rows))
	return nil
}

// Watch starts reporting changes to the dataset file. onChange runs on the
// watcher goroutine, so callers must hand off to their own loop before
// calling Reload.
func (s *Session) Watch(onChange func()) error {
	if s.watcher != nil {
		return nil
	}
	w, err := rowset.NewWatcher(s.data.Path, onChange, s.logger)
	if err != nil {
		return fmt.Errorf("watch dataset: %w", err)
	}
	w.Start()
	s.watcher = w
	return nil
}

// Close stops watching and detaches the view and cursor.
func (s *Session) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	s.view.DetachCursor()
	s.cursor.Close()
	s.view.Detach()
}
