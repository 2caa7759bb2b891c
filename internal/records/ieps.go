package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func iepVisibility() Visibility[schema.IEP] {
	return ownerScoped(
		func(i schema.IEP) string { return i.ParentID },
		func(i schema.IEP) string { return i.AdvocateID },
	)
}

// IEPs returns the IEP records visible to the actor.
func (s *Service) IEPs(actor schema.User) []schema.IEP {
	return s.ieps.View(actor, iepVisibility())
}

// IEP looks up a single IEP if the actor may see it.
func (s *Service) IEP(actor schema.User, id string) (schema.IEP, bool) {
	iep, ok := s.ieps.Find(id)
	if !ok || !iepVisibility()(actor, iep) {
		return schema.IEP{}, false
	}
	return iep, true
}

// ChildIEPs returns the actor-visible IEPs for one child.
func (s *Service) ChildIEPs(actor schema.User, childID string) []schema.IEP {
	var out []schema.IEP
	for _, iep := range s.IEPs(actor) {
		if iep.ChildID == childID {
			out = append(out, iep)
		}
	}
	return out
}

// UploadIEP creates an IEP record for the acting parent and kicks off
// best-effort document analysis in the background. The upload succeeds even
// when analysis fails; the record then sits at analysis_failed until
// AnalyzeIEP is retried. When documentText is provided it is stored in the
// document store for the analyzer to pick up.
func (s *Service) UploadIEP(ctx context.Context, actor schema.User, childID, fileName, fileURL, documentText string) (schema.IEP, error) {
	if err := requireCap(actor, CapUploadIEP, "upload IEPs"); err != nil {
		return schema.IEP{}, err
	}

	iep := schema.IEP{
		ID:             s.newID(),
		ParentID:       actor.ID,
		ChildID:        childID,
		FileName:       fileName,
		FileURL:        fileURL,
		UploadDate:     s.now().UTC(),
		AnalysisStatus: schema.AnalysisUploaded,
	}
	if match := s.ActiveMatch(actor.ID); match != nil {
		iep.AdvocateID = match.AdvocateID
	}

	if documentText != "" && s.docs != nil {
		if err := s.docs.Put(ctx, iep.ID, []byte(documentText), "text/plain"); err != nil {
			log.Printf("Warning: could not store document text for IEP %s: %v", iep.ID, err)
		}
	}

	if err := s.ieps.Insert(ctx, iep); err != nil {
		s.observer.PersistFailed(KeyIEPs)
		return iep, err
	}
	s.observer.RecordCreated(KeyIEPs)
	s.recordAudit(ctx, actor, "DOCUMENT_UPLOAD", "IEP", iep.ID, fmt.Sprintf("Uploaded IEP document %s", fileName), schema.SeverityMedium)

	if s.analyzer != nil {
		s.wg.Add(1)
		go func(id string) {
			defer s.wg.Done()
			if _, err := s.AnalyzeIEP(context.Background(), id, ""); err != nil {
				log.Printf("Warning: analysis failed for IEP %s (upload kept): %v", id, err)
			}
		}(iep.ID)
	}
	return iep, nil
}

// AnalyzeIEP runs (or re-runs) document analysis for an IEP and attaches the
// resulting summary. The record moves uploaded -> analyzed on success and to
// analysis_failed on error; a later call retries from either state.
func (s *Service) AnalyzeIEP(ctx context.Context, iepID, documentText string) (schema.IEPSummary, error) {
	if s.analyzer == nil {
		return schema.IEPSummary{}, fmt.Errorf("no analyzer configured")
	}

	iep, ok := s.lookupIEP(ctx, iepID)
	if !ok {
		return schema.IEPSummary{}, fmt.Errorf("%w: IEP %s", ErrNotFound, iepID)
	}

	text := documentText
	if text == "" {
		text = s.documentText(ctx, iep)
	}

	summary, err := s.analyzer.AnalyzeDocument(ctx, text)
	if err != nil {
		s.observer.AnalysisFinished("error")
		if _, _, patchErr := s.ieps.Patch(ctx, iepID, func(i schema.IEP) schema.IEP {
			i.AnalysisStatus = schema.AnalysisFailed
			return i
		}); patchErr != nil {
			log.Printf("Warning: could not mark IEP %s analysis_failed: %v", iepID, patchErr)
		}
		return schema.IEPSummary{}, fmt.Errorf("analyze IEP %s: %w", iepID, err)
	}

	if _, _, err := s.ieps.Patch(ctx, iepID, func(i schema.IEP) schema.IEP {
		i.Summary = &summary
		i.AnalysisStatus = schema.AnalysisDone
		return i
	}); err != nil {
		s.observer.AnalysisFinished("persist_error")
		return summary, err
	}
	s.observer.AnalysisFinished("ok")
	return summary, nil
}

// CoachingQuestions generates parent coaching questions from an IEP's
// summary. The summary must exist; generate it first. Unlike document
// analysis there is no fallback here, failures propagate to the caller.
func (s *Service) CoachingQuestions(ctx context.Context, iepID string) ([]string, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("no analyzer configured")
	}
	iep, ok := s.lookupIEP(ctx, iepID)
	if !ok {
		return nil, fmt.Errorf("%w: IEP %s", ErrNotFound, iepID)
	}
	if iep.Summary == nil {
		return nil, fmt.Errorf("IEP %s has no summary yet; generate one first", iepID)
	}
	return s.analyzer.CoachingQuestions(ctx, *iep.Summary)
}

// lookupIEP resolves an IEP through the canonical precedence: the in-memory
// set first, then the persisted snapshot, then seed data. The two fallback
// tiers only matter when the collection failed to load.
func (s *Service) lookupIEP(ctx context.Context, id string) (schema.IEP, bool) {
	if iep, ok := s.ieps.Find(id); ok {
		return iep, true
	}
	if data, err := s.backend.Read(ctx, KeyIEPs); err == nil {
		var stored []schema.IEP
		if err := json.Unmarshal(data, &stored); err == nil {
			for _, iep := range stored {
				if iep.ID == id {
					return iep, true
				}
			}
		}
	} else if err != storage.ErrNotFound {
		log.Printf("Warning: could not read IEP snapshot during lookup: %v", err)
	}
	for _, iep := range s.ieps.seed() {
		if iep.ID == id {
			return iep, true
		}
	}
	return schema.IEP{}, false
}

// documentText fetches stored document text for an IEP, falling back to the
// analyzer's extraction (which synthesizes sample content when the file
// itself is unreachable).
func (s *Service) documentText(ctx context.Context, iep schema.IEP) string {
	if s.docs != nil {
		if data, err := s.docs.Get(ctx, iep.ID); err == nil && len(data) > 0 {
			return string(data)
		}
	}
	text, err := s.analyzer.ExtractText(ctx, iep.FileName)
	if err != nil {
		log.Printf("Warning: could not extract text from %s: %v", iep.FileName, err)
		return fmt.Sprintf("IEP Document for %s\n\nNo extractable text was available for this upload.", iep.FileName)
	}
	return text
}

// IEPError exposes the IEP collection's non-fatal error state.
func (s *Service) IEPError() error { return s.ieps.Err() }

// ClearIEPError resets the IEP collection's error state.
func (s *Service) ClearIEPError() { s.ieps.ClearErr() }
