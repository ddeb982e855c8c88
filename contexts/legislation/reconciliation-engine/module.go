package reconciliationengine

import (
	"log/slog"

	httpadapter "councilwatch/contexts/legislation/reconciliation-engine/adapters/http"
	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/analyzer"
	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals      ports.ProposalRepository
	Conferences    ports.ConferenceRepository
	Meetings       ports.MeetingRepository
	Politicians    ports.PoliticianRepository
	Groups         ports.GroupRepository
	Memberships    ports.MembershipRepository
	Extracted      ports.ExtractedJudgmentRepository
	GroupJudgments ports.GroupJudgmentRepository
	Individuals    ports.IndividualJudgmentRepository
	Submitters     ports.SubmitterRepository
	// Analyzer overrides the default rule-based submitter analyzer when a
	// different implementation is configured.
	Analyzer ports.SubmitterAnalyzer
	Rules    matching.KeywordRules
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submitterAnalyzer := deps.Analyzer
	if submitterAnalyzer == nil {
		submitterAnalyzer = analyzer.RuleBased{
			Conferences: deps.Conferences,
			Groups:      deps.Groups,
			Politicians: deps.Politicians,
			Rules:       deps.Rules,
			Logger:      deps.Logger,
		}
	}
	members := queries.MembershipResolver{Memberships: deps.Memberships}

	return Module{
		Handler: httpadapter.Handler{
			Submitters: commands.SubmitterUseCase{
				Analyzer:   submitterAnalyzer,
				Submitters: deps.Submitters,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			GroupMatch: commands.GroupJudgmentMatchUseCase{
				Groups:         deps.Groups,
				Extracted:      deps.Extracted,
				GroupJudgments: deps.GroupJudgments,
				Clock:          deps.Clock,
				IDGen:          deps.IDGen,
				Logger:         deps.Logger,
			},
			Expansion: commands.VoteExpansionUseCase{
				Proposals:      deps.Proposals,
				Meetings:       deps.Meetings,
				GroupJudgments: deps.GroupJudgments,
				Individuals:    deps.Individuals,
				Members:        members,
				Clock:          deps.Clock,
				IDGen:          deps.IDGen,
				Logger:         deps.Logger,
			},
			RollCall: commands.RollCallUseCase{
				Proposals:      deps.Proposals,
				Meetings:       deps.Meetings,
				Groups:         deps.Groups,
				Politicians:    deps.Politicians,
				GroupJudgments: deps.GroupJudgments,
				Individuals:    deps.Individuals,
				Members:        members,
				Clock:          deps.Clock,
				IDGen:          deps.IDGen,
				Logger:         deps.Logger,
			},
			Import: commands.ProposalImportUseCase{
				Proposals: deps.Proposals,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Logger:    deps.Logger,
			},
			Resolution: commands.MatchResolutionUseCase{
				Extracted: deps.Extracted,
				Logger:    deps.Logger,
			},
			Defections: queries.DefectionAuditUseCase{
				Proposals:      deps.Proposals,
				Meetings:       deps.Meetings,
				Groups:         deps.Groups,
				Politicians:    deps.Politicians,
				GroupJudgments: deps.GroupJudgments,
				Individuals:    deps.Individuals,
				Members:        members,
			},
			ReviewQueue: queries.ReviewQueueUseCase{
				Extracted: deps.Extracted,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals:      store,
		Conferences:    store,
		Meetings:       store,
		Politicians:    store,
		Groups:         store,
		Memberships:    store,
		Extracted:      store,
		GroupJudgments: store,
		Individuals:    store,
		Submitters:     store,
		Rules:          matching.DefaultRules(),
		Clock:          store,
		IDGen:          store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
