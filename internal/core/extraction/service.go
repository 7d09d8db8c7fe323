// Package extraction turns PDF text-layer output into NFS-e and informe records.
package extraction

import (
	"fmt"
	"strings"
	"sync"

	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service define a interface para o serviço de extração.
type Service interface {
	ExtractInvoices(docs []domain.Document) []domain.InvoiceRecord
	SplitInvoices(doc domain.Document) []domain.InvoiceRecord
	ExtractStatements(docs []domain.Document) []domain.IncomeStatement
}

type service struct {
	fx     FieldExtractor
	logger *zap.Logger
}

// Option configures the extraction service.
type Option func(*service)

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrategies overrides the default strategy order for patterns that declare none.
func WithStrategies(strategies ...Strategy) Option {
	return func(s *service) {
		s.fx.Strategies = strategies
	}
}

// NewService cria uma nova instância do serviço de extração.
func NewService(opts ...Option) Service {
	s := &service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractInvoices reads one NFS-e per document. N documents always yield N records, in order.
func (s *service) ExtractInvoices(docs []domain.Document) []domain.InvoiceRecord {
	out := make([]domain.InvoiceRecord, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = s.extractInvoice(withID(docs[i]))
		}(i)
	}
	wg.Wait()
	return out
}

func (s *service) extractInvoice(doc domain.Document) domain.InvoiceRecord {
	if reason, fatal := fatalReason(doc); fatal {
		s.logger.Warn("documento ilegível", zap.String("filename", doc.Filename), zap.String("reason", reason))
		return FailedInvoice(doc, reason)
	}
	rec := ExtractInvoice(s.fx, normalizeInvoice(doc.Text))
	rec.DocumentID = doc.ID
	rec.Filename = doc.Filename
	s.logger.Debug("nfse extraída",
		zap.String("filename", doc.Filename),
		zap.String("number", rec.Number),
		zap.Float64("confidence", rec.Confidence))
	return rec
}

// SplitInvoices segments a consolidated PDF and reads each NFS-e block. A document without
// any invoice heading yields no records; an unreadable one yields a single failed record.
func (s *service) SplitInvoices(doc domain.Document) []domain.InvoiceRecord {
	doc = withID(doc)
	if reason, fatal := fatalReason(doc); fatal {
		return []domain.InvoiceRecord{FailedInvoice(doc, reason)}
	}
	spans := Segment(normalizeInvoice(doc.Text), InvoiceSegmentRule)
	if len(spans) == 0 {
		s.logger.Info("nenhuma NFS-e encontrada", zap.String("filename", doc.Filename))
	}
	out := make([]domain.InvoiceRecord, 0, len(spans))
	for _, span := range spans {
		rec := ExtractInvoice(s.fx, span.Text)
		rec.DocumentID = doc.ID
		rec.Filename = doc.Filename
		out = append(out, rec)
	}
	return out
}

// ExtractStatements reads every worker block of every informe. Records follow document order
// and then block order. An unreadable document contributes one record carrying the error.
func (s *service) ExtractStatements(docs []domain.Document) []domain.IncomeStatement {
	perDoc := make([][]domain.IncomeStatement, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			perDoc[i] = s.extractStatements(withID(docs[i]))
		}(i)
	}
	wg.Wait()

	out := []domain.IncomeStatement{}
	for _, recs := range perDoc {
		out = append(out, recs...)
	}
	return out
}

func (s *service) extractStatements(doc domain.Document) []domain.IncomeStatement {
	if reason, fatal := fatalReason(doc); fatal {
		s.logger.Warn("documento ilegível", zap.String("filename", doc.Filename), zap.String("reason", reason))
		return []domain.IncomeStatement{{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			HealthPlan: []domain.HealthPlanEntry{},
			Errors:     []string{reason},
		}}
	}

	spans := Segment(textnorm.Normalize(doc.Text, textnorm.StatementOptions), StatementSegmentRule)
	s.logger.Debug("informe segmentado", zap.String("filename", doc.Filename), zap.Int("blocks", len(spans)))

	out := make([]domain.IncomeStatement, 0, len(spans))
	for _, span := range spans {
		st := ExtractStatement(s.fx, span)
		st.DocumentID = doc.ID
		st.Filename = doc.Filename
		out = append(out, st)
	}
	return out
}

func fatalReason(doc domain.Document) (string, bool) {
	if doc.Err != nil {
		return fmt.Sprintf("não foi possível ler o documento: %v", doc.Err), true
	}
	if strings.TrimSpace(doc.Text) == "" {
		return "documento sem texto extraível", true
	}
	return "", false
}

func withID(doc domain.Document) domain.Document {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return doc
}
