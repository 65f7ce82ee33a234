// Package ofx reads bank and credit card statements in OFX/QFX format and
// turns their entries into transactions ready to be stored.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts OFX statements into transaction inputs.
type Parser struct {
	// CategoryID, when set, is assigned to every parsed transaction.
	CategoryID *int64
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX statement. Credits become income and debits
// become expenses, both with a positive amount. Zero-amount entries are
// skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.TransactionInput, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var inputs []model.TransactionInput
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			inputs = append(inputs, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			inputs = append(inputs, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(inputs),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return inputs, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []model.TransactionInput {
	if list == nil {
		return nil
	}

	inputs := make([]model.TransactionInput, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		input, ok := p.convertTransaction(ofxTx)
		if !ok {
			slog.Warn("Skipping zero-amount OFX transaction",
				"account", accountID,
				"fitid", string(ofxTx.FiTID))
			continue
		}
		inputs = append(inputs, input)
	}
	return inputs
}

// convertTransaction maps one OFX entry. It reports false for zero amounts.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (model.TransactionInput, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(4))
	if err != nil || amount.IsZero() {
		return model.TransactionInput{}, false
	}

	txType := model.TransactionTypeIncome
	if amount.IsNegative() {
		txType = model.TransactionTypeExpense
	}

	return model.TransactionInput{
		Type:        txType,
		Amount:      amount.Abs(),
		Date:        ofxTx.DtPosted.Format(model.DateLayout),
		Description: p.extractMerchantName(ofxTx),
		CategoryID:  p.CategoryID,
	}, true
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"ACH CREDIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE", "DEPOSIT":
		return true
	}
	return false
}

// GetAccounts returns the sorted, unique account IDs found in the statement.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
