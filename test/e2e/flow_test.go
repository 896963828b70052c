// test/e2e/flow_test.go
package e2e

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/catalog"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/validation"
	"insurance-workers/internal/models"
	"insurance-workers/internal/notification"
	"insurance-workers/internal/policy"
	"insurance-workers/internal/session"
	"insurance-workers/pkg/registry"

	companyanalysis "insurance-workers/internal/workers/insurance/company-analysis"
	comparepolicies "insurance-workers/internal/workers/insurance/compare-policies"
	managesession "insurance-workers/internal/workers/insurance/manage-session"
	parsefiltercriteria "insurance-workers/internal/workers/insurance/parse-filter-criteria"
	recommendpolicies "insurance-workers/internal/workers/insurance/recommend-policies"
	sendrecommendations "insurance-workers/internal/workers/insurance/send-recommendations"
)

// The shopping flow runs every worker in process, in the order the BPMN model
// calls them, against the seed catalog behind a miniredis cache.

type captureSender struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (c *captureSender) Send(_ context.Context, msg notification.Message) (*models.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return &models.Notification{
		ID:      uuid.NewString(),
		Channel: msg.Channel,
		Status:  notification.StatusSent,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

type flowEnv struct {
	validator *validation.SchemaValidator
	redis     *miniredis.Miniredis
	catalog   catalog.Repository
	sessions  session.Repository
	sender    *captureSender
	log       logger.Logger
}

func setupFlow(t *testing.T) *flowEnv {
	t.Helper()

	reg, err := registry.Load()
	require.NoError(t, err)
	validator, err := validation.NewSchemaValidator(reg)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	seed, err := catalog.NewSeedRepository()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	return &flowEnv{
		validator: validator,
		redis:     mr,
		catalog:   catalog.NewCachedRepository(seed, client, time.Minute, log),
		sessions:  session.NewRedisRepository(client, time.Hour),
		sender:    &captureSender{},
		log:       log,
	}
}

// requireValidInput checks input the way WithValidation does before a handler runs.
func (e *flowEnv) requireValidInput(t *testing.T, taskType string, input interface{}) {
	t.Helper()
	data, err := json.Marshal(input)
	require.NoError(t, err)
	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &vars))
	require.NoError(t, e.validator.Validate(taskType, vars), taskType)
}

func TestShoppingFlow(t *testing.T) {
	env := setupFlow(t)
	ctx := context.Background()

	// login
	sessionIn := &managesession.Input{Action: managesession.ActionLogin, Email: "asha@example.com", Password: "secret"}
	env.requireValidInput(t, managesession.TaskType, sessionIn)
	login, err := managesession.NewHandler(managesession.LoadConfig(), env.sessions, env.log).Execute(ctx, sessionIn)
	require.NoError(t, err)
	require.True(t, login.Authenticated)

	// wizard answers
	parseIn := &parsefiltercriteria.Input{Category: "Family", Budget: "₹20,000", MedicalHistory: []string{"None"}}
	env.requireValidInput(t, parsefiltercriteria.TaskType, parseIn)
	parsed, err := parsefiltercriteria.NewHandler(parsefiltercriteria.LoadConfig(), env.log).Execute(ctx, parseIn)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), parsed.BudgetAmount)
	assert.Equal(t, "₹24,000", parsed.BudgetCeiling)

	// recommendations
	recommendIn := &recommendpolicies.Input{Criteria: parsed.Criteria}
	env.requireValidInput(t, recommendpolicies.TaskType, recommendIn)
	recs, err := recommendpolicies.NewHandler(recommendpolicies.LoadConfig(), env.catalog, env.log).Execute(ctx, recommendIn)
	require.NoError(t, err)
	require.Equal(t, 2, recs.Count)
	assert.Equal(t, "Family Health Optima", recs.Recommendations[0].Name)
	assert.Equal(t, "Care Supreme", recs.Recommendations[1].Name)
	assert.True(t, env.redis.Exists("catalog:policies"))

	// side-by-side comparison of the recommendations plus one more pick
	compareIn := &comparepolicies.Input{PolicyNames: []string{
		recs.Recommendations[0].Name,
		recs.Recommendations[1].Name,
		"Optima Secure",
	}}
	env.requireValidInput(t, comparepolicies.TaskType, compareIn)
	cmp, err := comparepolicies.NewHandler(comparepolicies.LoadConfig(), env.catalog, env.log).Execute(ctx, compareIn)
	require.NoError(t, err)
	assert.Empty(t, cmp.MissingPolicies)
	assert.Equal(t, compareIn.PolicyNames, cmp.Comparison.Policies)
	require.Len(t, cmp.Comparison.Rows, len(policy.Features()))

	for _, row := range cmp.Comparison.Rows {
		if row.Feature != policy.FeatureRoomRentLimit {
			continue
		}
		assert.Equal(t, "No Limit", row.BestValue)
		assert.Equal(t, policy.StyleBest, row.Cells[2].Style)
		assert.Equal(t, policy.StyleNeutral, row.Cells[0].Style)
	}

	// insurer behind the top pick
	companyIn := &companyanalysis.Input{Company: recs.Recommendations[0].Company}
	env.requireValidInput(t, companyanalysis.TaskType, companyIn)
	company, err := companyanalysis.NewHandler(companyanalysis.LoadConfig(), env.catalog, env.log).Execute(ctx, companyIn)
	require.NoError(t, err)
	assert.Equal(t, "Star Health", company.Financials.Company)
	assert.Equal(t, companyanalysis.GradeAverage, company.ClaimSettlementGrade)

	// shortlist goes out by email
	sendIn := &sendrecommendations.Input{
		Channel:   notification.ChannelEmail,
		Recipient: login.Session.Email,
		Name:      login.Session.Name,
		Policies:  recs.Recommendations,
	}
	env.requireValidInput(t, sendrecommendations.TaskType, sendIn)
	sent, err := sendrecommendations.NewHandler(sendrecommendations.LoadConfig(), env.sender, env.log).Execute(ctx, sendIn)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, sent.Status)
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "asha@example.com", env.sender.sent[0].Recipient)
	assert.Len(t, env.sender.sent[0].Policies, 2)

	// logout ends the session
	logoutIn := &managesession.Input{Action: managesession.ActionLogout, Token: login.Session.Token}
	env.requireValidInput(t, managesession.TaskType, logoutIn)
	_, err = managesession.NewHandler(managesession.LoadConfig(), env.sessions, env.log).Execute(ctx, logoutIn)
	require.NoError(t, err)
	assert.False(t, env.redis.Exists("session:"+login.Session.Token))
}

func TestShoppingFlow_SchemaRejectsBadInput(t *testing.T) {
	env := setupFlow(t)

	tests := []struct {
		name     string
		taskType string
		vars     map[string]interface{}
	}{
		{"single policy comparison", comparepolicies.TaskType, map[string]interface{}{"policyNames": []interface{}{"Optima Secure"}}},
		{"five policy comparison", comparepolicies.TaskType, map[string]interface{}{"policyNames": []interface{}{"a", "b", "c", "d", "e"}}},
		{"unknown session action", managesession.TaskType, map[string]interface{}{"action": "refresh"}},
		{"empty shortlist", sendrecommendations.TaskType, map[string]interface{}{"channel": "email", "recipient": "a@b.co", "policies": []interface{}{}}},
		{"missing company", companyanalysis.TaskType, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, env.validator.Validate(tt.taskType, tt.vars))
		})
	}
}
