package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"
	"veronikaextra-backend/pkg/credit"
	"veronikaextra-backend/pkg/events"
	"veronikaextra-backend/pkg/plan"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var planCreditsPattern = regexp.MustCompile(`(?i)(\d+)\s*Credits`)

type (
	PaymentService interface {
		CreateUpiPayment(ctx context.Context, userID string, req domain.CreateUpiPaymentRequest) (*domain.CreateUpiPaymentResponse, error)
		CreateCryptoPayment(ctx context.Context, userID string, req domain.CreateCryptoPaymentRequest) (*domain.CreateCryptoPaymentResponse, error)
		VerifyPayment(ctx context.Context, userID string, req domain.VerifyPaymentRequest) (*domain.VerifyPaymentResponse, error)

		GetUserPaymentRequests(ctx context.Context, userID string) ([]*domain.PaymentRequest, error)
		GetUserCryptoTransactions(ctx context.Context, userID string) ([]*domain.CryptoPaymentTransaction, error)

		GetAllPaymentRequests(ctx context.Context, page, limit int) ([]*domain.PaymentRequest, int64, error)
		GetAllCryptoTransactions(ctx context.Context, page, limit int) ([]*domain.CryptoPaymentTransaction, int64, error)
		ApprovePaymentRequest(ctx context.Context, id string) (*domain.ApprovePaymentResponse, error)
		RejectPaymentRequest(ctx context.Context, id string) error

		HandleCashfreeWebhook(ctx context.Context, timestamp, signature string, body []byte) error
		HandleOxapayCallback(ctx context.Context, signature string, body []byte) error
	}

	// UserLookup is the slice of the user store payments need.
	UserLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	paymentService struct {
		paymentRepository PaymentRepository
		userLookup        UserLookup
		planService       plan.PlanService
		creditService     credit.CreditService
		cashfree          CashfreeClient
		oxapay            OxapayClient
		publisher         events.Publisher
		now               func() time.Time
	}
)

func NewPaymentService(
	paymentRepository PaymentRepository,
	userLookup UserLookup,
	planService plan.PlanService,
	creditService credit.CreditService,
	cashfree CashfreeClient,
	oxapay OxapayClient,
	publisher events.Publisher,
) PaymentService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &paymentService{
		paymentRepository: paymentRepository,
		userLookup:        userLookup,
		planService:       planService,
		creditService:     creditService,
		cashfree:          cashfree,
		oxapay:            oxapay,
		publisher:         publisher,
		now:               time.Now,
	}
}

// NewOrderID builds "<first segment of user id>-<credits>-<unix millis>-<6 hex>".
// The random tail keeps same-millisecond orders apart.
func NewOrderID(userID string, credits int, at time.Time) string {
	prefix := strings.SplitN(userID, "-", 2)[0]
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%d-%d-%s", prefix, credits, at.UnixMilli(), suffix)
}

// CreditsFromLabel reads the credit count out of a plan label such as "200 Credits".
func CreditsFromLabel(label string) int {
	m := planCreditsPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func (s *paymentService) lookupUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userLookup.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *paymentService) CreateUpiPayment(ctx context.Context, userID string, req domain.CreateUpiPaymentRequest) (*domain.CreateUpiPaymentResponse, error) {
	if !s.cashfree.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.planService.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.InrPrice.IsPositive() {
		return nil, domain.ErrPaymentAmountUnavailable
	}

	request := &entities.PaymentRequest{
		ID:       uuid.New(),
		UserID:   user.ID,
		PlanID:   p.ID,
		Plan:     p.Label(),
		Credits:  p.Credits,
		Amount:   p.InrPrice,
		Currency: domain.CurrencyINR,
		OrderID:  NewOrderID(userID, p.Credits, s.now()),
		Note:     "Cashfree UPI",
		Status:   domain.PaymentStatusPending,
	}
	if err := s.paymentRepository.CreatePaymentRequest(ctx, request); err != nil {
		return nil, err
	}

	result, err := s.cashfree.CreateOrder(ctx, CashfreeOrder{
		OrderID:       request.OrderID,
		OrderAmount:   p.InrPrice.InexactFloat64(),
		OrderCurrency: domain.CurrencyINR,
		CustomerDetails: CashfreeCustomer{
			CustomerID:    user.ID.String(),
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			CustomerPhone: req.CustomerPhone,
		},
		OrderMeta: CashfreeOrderMeta{ReturnURL: req.ReturnURL},
	})
	if err != nil {
		log.Warnf("cashfree order %s left pending: %v", request.OrderID, err)
		return nil, err
	}

	if err := s.paymentRepository.SavePaymentLink(ctx, request.ID, result.PaymentLink, datatypes.JSON(result.Raw)); err != nil {
		log.Errorf("failed to store payment link for %s: %v", request.OrderID, err)
	}

	return &domain.CreateUpiPaymentResponse{
		Message:     domain.MessageSuccessCreateUpiPayment,
		PaymentLink: result.PaymentLink,
		OrderID:     request.OrderID,
	}, nil
}

func (s *paymentService) CreateCryptoPayment(ctx context.Context, userID string, req domain.CreateCryptoPaymentRequest) (*domain.CreateCryptoPaymentResponse, error) {
	if !s.oxapay.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.planService.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.UsdPrice.IsPositive() {
		return nil, domain.ErrPaymentAmountUnavailable
	}

	transaction := &entities.CryptoPaymentTransaction{
		ID:       uuid.New(),
		UserID:   user.ID,
		PlanID:   p.ID,
		OrderID:  "CRYPTO-" + NewOrderID(userID, p.Credits, s.now()),
		Credits:  p.Credits,
		Amount:   p.UsdPrice,
		Currency: domain.CurrencyUSD,
		Gateway:  domain.GatewayOxapay,
		Status:   domain.CryptoStatusPending,
	}
	if err := s.paymentRepository.CreateCryptoTransaction(ctx, transaction); err != nil {
		return nil, err
	}

	result, err := s.oxapay.CreateInvoice(ctx, OxapayInvoice{
		Amount:      p.UsdPrice.InexactFloat64(),
		Currency:    domain.CurrencyUSD,
		ReturnURL:   req.ReturnURL,
		Description: fmt.Sprintf("%s - %s", domain.BrandName, p.Label()),
		OrderID:     transaction.OrderID,
		Email:       user.Email,
	})
	if err != nil {
		log.Warnf("oxapay invoice %s left pending: %v", transaction.OrderID, err)
		return nil, err
	}

	if err := s.paymentRepository.SaveCryptoInvoice(ctx, transaction.ID, string(result.TrackID), result.PayLink, datatypes.JSON(result.Raw)); err != nil {
		log.Errorf("failed to store invoice for %s: %v", transaction.OrderID, err)
	}

	return &domain.CreateCryptoPaymentResponse{
		Message:    domain.MessageSuccessCreateCryptoPayment,
		PaymentURL: result.PayLink,
		OrderID:    transaction.OrderID,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, userID string, req domain.VerifyPaymentRequest) (*domain.VerifyPaymentResponse, error) {
	switch req.Provider {
	case domain.ProviderCashfree:
		return s.verifyCashfree(ctx, userID, req.OrderID)
	case domain.ProviderOxapay:
		return s.verifyOxapay(ctx, userID, req.OrderID)
	default:
		return nil, domain.ErrInvalidProvider
	}
}

func (s *paymentService) currentBalance(ctx context.Context, userID string) (*domain.VerifyPaymentResponse, error) {
	credits, err := s.creditService.GetUserCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.VerifyPaymentResponse{NewCredits: credits.Balance, Message: domain.MessageAlreadyCompleted}, nil
}

func (s *paymentService) verifyCashfree(ctx context.Context, userID, orderID string) (*domain.VerifyPaymentResponse, error) {
	request, err := s.paymentRepository.GetPaymentRequestByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	if request.UserID.String() != userID {
		return nil, domain.ErrTransactionNotFound
	}

	switch request.Status {
	case domain.PaymentStatusApproved:
		return s.currentBalance(ctx, userID)
	case domain.PaymentStatusRejected:
		return nil, domain.ErrPaymentAlreadyProcessed
	}

	order, err := s.cashfree.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.OrderStatus {
	case CashfreeOrderPaid:
		balance, settled, err := s.settlePaymentRequest(ctx, request, request.Credits, domain.ProviderCashfree)
		if err != nil {
			return nil, err
		}
		if !settled {
			return s.currentBalance(ctx, userID)
		}
		return &domain.VerifyPaymentResponse{NewCredits: balance, Message: domain.MessageSuccessVerifyPayment}, nil
	case CashfreeOrderExpired, CashfreeOrderTerminated:
		if _, err := s.paymentRepository.TransitionPaymentRequest(ctx, request.ID, domain.PaymentStatusRejected, nil); err != nil {
			return nil, err
		}
		return nil, domain.ErrPaymentExpired
	default:
		return nil, domain.ErrPaymentNotCompleted
	}
}

func (s *paymentService) verifyOxapay(ctx context.Context, userID, orderID string) (*domain.VerifyPaymentResponse, error) {
	transaction, err := s.paymentRepository.GetCryptoTransactionByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.UserID.String() != userID {
		return nil, domain.ErrTransactionNotFound
	}
	if transaction.Status == domain.CryptoStatusCompleted {
		return s.currentBalance(ctx, userID)
	}
	if transaction.TrackID == "" {
		return nil, domain.ErrPaymentNotCompleted
	}

	result, err := s.oxapay.Inquiry(ctx, transaction.TrackID)
	if err != nil {
		return nil, err
	}
	if result.Status != OxapayStatusPaid {
		return nil, domain.ErrPaymentNotCompleted
	}

	balance, settled, err := s.settleCryptoTransaction(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if !settled {
		return s.currentBalance(ctx, userID)
	}
	return &domain.VerifyPaymentResponse{NewCredits: balance, Message: domain.MessageSuccessVerifyPayment}, nil
}

// settlePaymentRequest approves a pending request and grants its credits in one
// transaction. settled is false when another caller got there first.
func (s *paymentService) settlePaymentRequest(ctx context.Context, request *entities.PaymentRequest, credits int, provider string) (int, bool, error) {
	userID := request.UserID.String()
	balance := 0
	settled, err := s.paymentRepository.TransitionPaymentRequest(ctx, request.ID, domain.PaymentStatusApproved, func(tx *gorm.DB) error {
		var err error
		balance, err = s.creditService.WithTx(tx).Purchase(ctx, userID, credits, request.OrderID, "Purchased "+request.Plan)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	if settled {
		s.publishSettled(ctx, domain.PaymentSettledEvent{
			Provider:  provider,
			OrderID:   request.OrderID,
			UserID:    userID,
			Credits:   credits,
			Amount:    request.Amount,
			Currency:  request.Currency,
			Balance:   balance,
			SettledAt: s.now(),
		}, request.User)
	}
	return balance, settled, nil
}

func (s *paymentService) settleCryptoTransaction(ctx context.Context, transaction *entities.CryptoPaymentTransaction) (int, bool, error) {
	userID := transaction.UserID.String()
	balance := 0
	settled, err := s.paymentRepository.CompleteCryptoTransaction(ctx, transaction.ID, func(tx *gorm.DB) error {
		var err error
		balance, err = s.creditService.WithTx(tx).Purchase(ctx, userID, transaction.Credits, transaction.OrderID, fmt.Sprintf("Purchased %d Credits (crypto)", transaction.Credits))
		return err
	})
	if err != nil {
		return 0, false, err
	}
	if settled {
		s.publishSettled(ctx, domain.PaymentSettledEvent{
			Provider:  domain.ProviderOxapay,
			OrderID:   transaction.OrderID,
			UserID:    userID,
			Credits:   transaction.Credits,
			Amount:    transaction.Amount,
			Currency:  transaction.Currency,
			Balance:   balance,
			SettledAt: s.now(),
		}, transaction.User)
	}
	return balance, settled, nil
}

func (s *paymentService) publishSettled(ctx context.Context, event domain.PaymentSettledEvent, user *entities.User) {
	if user != nil {
		event.UserName = user.Name
		event.UserEmail = user.Email
	}
	if err := s.publisher.Publish(ctx, domain.EventPaymentSettled, event); err != nil {
		log.Errorf("failed to publish %s for %s: %v", domain.EventPaymentSettled, event.OrderID, err)
	}
}

func toPaymentRequest(p *entities.PaymentRequest) *domain.PaymentRequest {
	out := &domain.PaymentRequest{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		PlanID:      p.PlanID,
		Plan:        p.Plan,
		Credits:     p.Credits,
		Amount:      p.Amount,
		Currency:    p.Currency,
		OrderID:     p.OrderID,
		Date:        p.CreatedAt.Format("2006-01-02 15:04"),
		Note:        p.Note,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt,
	}
	if p.User != nil {
		out.UserName = p.User.Name
		out.UserEmail = p.User.Email
	}
	return out
}

func toCryptoTransaction(t *entities.CryptoPaymentTransaction) *domain.CryptoPaymentTransaction {
	out := &domain.CryptoPaymentTransaction{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		OrderID:     t.OrderID,
		TrackID:     t.TrackID,
		Credits:     t.Credits,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Gateway:     t.Gateway,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.User != nil {
		out.UserName = t.User.Name
		out.UserEmail = t.User.Email
	}
	return out
}

func (s *paymentService) GetUserPaymentRequests(ctx context.Context, userID string) ([]*domain.PaymentRequest, error) {
	requests, err := s.paymentRepository.GetUserPaymentRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.PaymentRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, toPaymentRequest(r))
	}
	return out, nil
}

func (s *paymentService) GetUserCryptoTransactions(ctx context.Context, userID string) ([]*domain.CryptoPaymentTransaction, error) {
	transactions, err := s.paymentRepository.GetUserCryptoTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.CryptoPaymentTransaction, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toCryptoTransaction(t))
	}
	return out, nil
}

func (s *paymentService) GetAllPaymentRequests(ctx context.Context, page, limit int) ([]*domain.PaymentRequest, int64, error) {
	requests, count, err := s.paymentRepository.GetPaymentRequests(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.PaymentRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, toPaymentRequest(r))
	}
	return out, count, nil
}

func (s *paymentService) GetAllCryptoTransactions(ctx context.Context, page, limit int) ([]*domain.CryptoPaymentTransaction, int64, error) {
	transactions, count, err := s.paymentRepository.GetCryptoTransactions(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.CryptoPaymentTransaction, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toCryptoTransaction(t))
	}
	return out, count, nil
}

func (s *paymentService) getPaymentRequest(ctx context.Context, id string) (*entities.PaymentRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrPaymentRequestNotFound
	}
	request, err := s.paymentRepository.GetPaymentRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *paymentService) ApprovePaymentRequest(ctx context.Context, id string) (*domain.ApprovePaymentResponse, error) {
	request, err := s.getPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.PaymentStatusPending {
		return nil, domain.ErrPaymentAlreadyProcessed
	}
	if request.User == nil {
		return nil, domain.ErrPaymentOwnerNotFound
	}

	credits := request.Credits
	if credits <= 0 {
		credits = CreditsFromLabel(request.Plan)
	}
	if credits <= 0 {
		approved, err := s.paymentRepository.TransitionPaymentRequest(ctx, request.ID, domain.PaymentStatusApproved, nil)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, domain.ErrPaymentAlreadyProcessed
		}
		return &domain.ApprovePaymentResponse{Message: domain.MessageApprovedWithoutCredits}, nil
	}

	_, settled, err := s.settlePaymentRequest(ctx, request, credits, domain.ProviderCashfree)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrPaymentOwnerNotFound
		}
		return nil, err
	}
	if !settled {
		return nil, domain.ErrPaymentAlreadyProcessed
	}

	return &domain.ApprovePaymentResponse{
		Message:      domain.MessageSuccessApprovePayment,
		CreditsAdded: credits,
	}, nil
}

func (s *paymentService) RejectPaymentRequest(ctx context.Context, id string) error {
	request, err := s.getPaymentRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != domain.PaymentStatusPending {
		return domain.ErrPaymentAlreadyProcessed
	}

	rejected, err := s.paymentRepository.TransitionPaymentRequest(ctx, request.ID, domain.PaymentStatusRejected, nil)
	if err != nil {
		return err
	}
	if !rejected {
		return domain.ErrPaymentAlreadyProcessed
	}
	return nil
}

func (s *paymentService) HandleCashfreeWebhook(ctx context.Context, timestamp, signature string, body []byte) error {
	if !s.cashfree.VerifyWebhook(timestamp, signature, body) {
		return domain.ErrInvalidWebhookSignature
	}

	var hook CashfreeWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return err
	}
	if hook.Data.Payment.PaymentStatus != CashfreePaymentSuccess {
		log.Infof("cashfree webhook %s for %s ignored (status %s)", hook.Type, hook.Data.Order.OrderID, hook.Data.Payment.PaymentStatus)
		return nil
	}

	request, err := s.paymentRepository.GetPaymentRequestByOrderID(ctx, hook.Data.Order.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentRequestNotFound
		}
		return err
	}
	if request.Status != domain.PaymentStatusPending {
		return nil
	}

	_, _, err = s.settlePaymentRequest(ctx, request, request.Credits, domain.ProviderCashfree)
	return err
}

func (s *paymentService) HandleOxapayCallback(ctx context.Context, signature string, body []byte) error {
	if !s.oxapay.VerifyCallback(signature, body) {
		return domain.ErrInvalidWebhookSignature
	}

	var callback OxapayCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		return err
	}
	if callback.Status != OxapayStatusPaid {
		log.Infof("oxapay callback for %s ignored (status %s)", callback.OrderID, callback.Status)
		return nil
	}

	transaction, err := s.paymentRepository.GetCryptoTransactionByOrderID(ctx, callback.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		return err
	}
	if transaction.Status != domain.CryptoStatusPending {
		return nil
	}

	_, _, err = s.settleCryptoTransaction(ctx, transaction)
	return err
}
