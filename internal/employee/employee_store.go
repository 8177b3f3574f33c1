package employee

import (
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Snapshot is an immutable view of the directory at one version.
// Records held by a snapshot are never modified after it is published.
type Snapshot struct {
	version uint64
	records []Employee
}

func (s Snapshot) Version() uint64 {
	return s.version
}

func (s Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of the ordered collection.
func (s Snapshot) Records() []Employee {
	out := make([]Employee, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

func (s Snapshot) Find(id string) (Employee, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return Employee{}, false
}

func (s Snapshot) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Store owns the authoritative employee collection. Every effective mutation
// publishes a new Snapshot with a higher version; not-found ids are silent no-ops.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	// issued is the highest EMP ordinal ever held, so removed ids are not handed out again.
	issued int

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64

	// deliverMu serializes notification; delivered is the last version handed out.
	deliverMu sync.Mutex
	delivered uint64

	logger *zap.Logger
}

func NewStore(gen Generator, logger ...*zap.Logger) *Store {
	l := zap.L().Named("employee.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.store")
	}

	var seed []Employee
	if gen != nil {
		seed = gen.GenerateInitialEmployees()
	}

	s := &Store{
		subs:   make(map[uint64]func(Snapshot)),
		logger: l,
	}
	s.current = Snapshot{version: 1, records: s.normalizeSeed(seed)}
	for _, r := range s.current.records {
		s.issued = max(s.issued, ordinalOf(r.ID))
	}

	l.Info("directory seeded", zap.Int("count", len(s.current.records)))
	return s
}

// normalizeSeed keeps the first record for a duplicated id and assigns ids to
// seed records that arrive without one, in place, so seed order is preserved.
func (s *Store) normalizeSeed(seed []Employee) []Employee {
	taken := make(map[string]struct{}, len(seed))
	for _, r := range seed {
		if r.ID != "" {
			taken[r.ID] = struct{}{}
		}
	}

	records := make([]Employee, 0, len(seed))
	kept := make(map[string]struct{}, len(seed))
	for _, r := range seed {
		r = r.Clone()
		if r.ID == "" {
			r.ID = nextID(len(records)+1, func(id string) bool { _, ok := taken[id]; return ok })
			taken[r.ID] = struct{}{}
		} else if _, dup := kept[r.ID]; dup {
			s.logger.Warn("duplicate seed id dropped", zap.String("employee_id", r.ID))
			continue
		}
		kept[r.ID] = struct{}{}
		records = append(records, r)
	}
	return records
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) FindByID(id string) (Employee, bool) {
	return s.Snapshot().Find(id)
}

// FindByEmail matches case-insensitively and ignores surrounding spaces.
func (s *Store) FindByEmail(email string) (Employee, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Employee{}, false
	}
	snap := s.Snapshot()
	for _, r := range snap.records {
		if strings.EqualFold(r.Email, email) {
			return r.Clone(), true
		}
	}
	return Employee{}, false
}

// Add stores rec under a fresh id and appends it. Any id on rec is ignored.
// The id is EMP + (len+1) unless that ordinal was already issued, in which case
// it continues after the highest one issued so far.
func (s *Store) Add(rec Employee) Employee {
	s.mu.Lock()
	prev := s.current
	rec = rec.Clone()
	rec.ID = nextID(max(prev.Len(), s.issued)+1, func(id string) bool { return prev.indexOf(id) >= 0 })
	s.issued = max(s.issued, ordinalOf(rec.ID))

	records := make([]Employee, 0, prev.Len()+1)
	records = append(records, prev.records...)
	records = append(records, rec)
	next := s.publishLocked(records)
	s.mu.Unlock()

	s.logger.Debug("employee added", zap.String("employee_id", rec.ID), zap.Uint64("version", next.version))
	s.notify(next)
	return rec.Clone()
}

// Update replaces the record with the shallow merge of patch over it and
// returns the merged record. ok is false when id is unknown.
func (s *Store) Update(id string, patch EmployeePatch) (Employee, bool) {
	s.mu.Lock()
	prev := s.current
	i := prev.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update skipped, employee not found", zap.String("employee_id", id))
		return Employee{}, false
	}

	records := make([]Employee, prev.Len())
	copy(records, prev.records)
	records[i] = patch.Apply(prev.records[i])
	next := s.publishLocked(records)
	s.mu.Unlock()

	s.logger.Debug("employee updated", zap.String("employee_id", id), zap.Uint64("version", next.version))
	s.notify(next)
	return records[i].Clone(), true
}

// Remove drops the record and returns it. Of concurrent removals of the same
// id exactly one reports ok.
func (s *Store) Remove(id string) (Employee, bool) {
	s.mu.Lock()
	prev := s.current
	i := prev.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("remove skipped, employee not found", zap.String("employee_id", id))
		return Employee{}, false
	}
	removed := prev.records[i]

	records := make([]Employee, 0, prev.Len()-1)
	records = append(records, prev.records[:i]...)
	records = append(records, prev.records[i+1:]...)
	next := s.publishLocked(records)
	s.mu.Unlock()

	s.logger.Debug("employee removed", zap.String("employee_id", id), zap.Uint64("version", next.version))
	s.notify(next)
	return removed.Clone(), true
}

// Subscribe registers fn to receive new snapshots in increasing version order.
// A snapshot superseded before delivery may be skipped. fn runs synchronously
// and must not mutate the store. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publishLocked(records []Employee) Snapshot {
	s.current = Snapshot{version: s.current.version + 1, records: records}
	return s.current
}

func (s *Store) notify(snap Snapshot) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if snap.version <= s.delivered {
		return
	}
	s.delivered = snap.version

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func nextID(ordinal int, taken func(string) bool) string {
	id := FormatID(ordinal)
	for taken(id) {
		ordinal++
		id = FormatID(ordinal)
	}
	return id
}

// ordinalOf returns the numeric part of an EMP id, or 0 for any other shape.
func ordinalOf(id string) int {
	digits, ok := strings.CutPrefix(id, IDPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
