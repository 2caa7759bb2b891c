package records

import (
	"context"
	"sort"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// AuditLog returns the full audit trail, newest first. Only admins may read
// it.
func (s *Service) AuditLog(actor schema.User) ([]schema.AuditEntry, error) {
	if err := requireCap(actor, CapViewAudit, "view the audit log"); err != nil {
		return nil, err
	}
	out := s.audit.All()
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// AuditByUser filters the audit trail to one user's actions.
func (s *Service) AuditByUser(actor schema.User, userID string) ([]schema.AuditEntry, error) {
	return s.auditFiltered(actor, func(e schema.AuditEntry) bool { return e.UserID == userID })
}

// AuditByResource filters the audit trail to one resource type.
func (s *Service) AuditByResource(actor schema.User, resource string) ([]schema.AuditEntry, error) {
	return s.auditFiltered(actor, func(e schema.AuditEntry) bool { return e.Resource == resource })
}

// AuditBySeverity filters the audit trail to one severity level.
func (s *Service) AuditBySeverity(actor schema.User, severity schema.Severity) ([]schema.AuditEntry, error) {
	return s.auditFiltered(actor, func(e schema.AuditEntry) bool { return e.Severity == severity })
}

// RecentAudit returns the n most recent entries.
func (s *Service) RecentAudit(actor schema.User, n int) ([]schema.AuditEntry, error) {
	entries, err := s.AuditLog(actor)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *Service) auditFiltered(actor schema.User, keep func(schema.AuditEntry) bool) ([]schema.AuditEntry, error) {
	entries, err := s.AuditLog(actor)
	if err != nil {
		return nil, err
	}
	var out []schema.AuditEntry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SecurityStats aggregates the audit trail into per-severity counts and a
// weighted risk score (critical 4, high 3, medium 2, low 1).
func (s *Service) SecurityStats(actor schema.User) (schema.SecurityStats, error) {
	entries, err := s.AuditLog(actor)
	if err != nil {
		return schema.SecurityStats{}, err
	}
	stats := schema.SecurityStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Severity {
		case schema.SeverityCritical:
			stats.Critical++
		case schema.SeverityHigh:
			stats.High++
		case schema.SeverityMedium:
			stats.Medium++
		default:
			stats.Low++
		}
	}
	stats.RiskScore = stats.Critical*4 + stats.High*3 + stats.Medium*2 + stats.Low
	return stats, nil
}

// RecordAudit appends an entry on behalf of the actor. The write is
// best-effort like internal audit hooks; persistence failures surface as the
// returned error but the entry stays in memory.
func (s *Service) RecordAudit(ctx context.Context, actor schema.User, action, resource, resourceID, details string, severity schema.Severity) (schema.AuditEntry, error) {
	entry := schema.AuditEntry{
		ID:         s.newID(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		Timestamp:  s.now().UTC(),
		Severity:   severity,
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.observer.PersistFailed(KeyAudit)
		return entry, err
	}
	s.observer.RecordCreated(KeyAudit)
	return entry, nil
}
