package models

// Expense categories. Budgets may only target these.
const (
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryEntertainment = "entertainment"
	CategoryUtilities     = "utilities"
	CategoryEducation     = "education"
	CategoryHealth        = "health"
	CategoryShopping      = "shopping"
	CategoryOther         = "other"
)

// Income categories.
const (
	CategorySalary      = "salary"
	CategoryFreelance   = "freelance"
	CategoryScholarship = "scholarship"
	CategoryPartTimeJob = "part-time job"
	CategoryInternship  = "internship"
	CategoryBonus       = "bonus"
	CategoryInvestment  = "investment"
	CategoryGift        = "gift"
	CategoryAllowance   = "allowance"
)

// ExpenseCategories returns the categories valid for expense transactions and budgets
func ExpenseCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryEducation,
		CategoryHealth,
		CategoryShopping,
		CategoryOther,
	}
}

// IncomeCategories returns the categories valid for income transactions
func IncomeCategories() []string {
	return []string{
		CategorySalary,
		CategoryFreelance,
		CategoryScholarship,
		CategoryPartTimeJob,
		CategoryInternship,
		CategoryBonus,
		CategoryInvestment,
		CategoryGift,
		CategoryAllowance,
	}
}

// AllCategories returns every known category, expense categories first
func AllCategories() []string {
	return append(ExpenseCategories(), IncomeCategories()...)
}

// CategoriesFor returns the categories allowed for a transaction type.
// Unknown types yield nil.
func CategoriesFor(transactionType string) []string {
	switch transactionType {
	case TransactionTypeExpense:
		return ExpenseCategories()
	case TransactionTypeIncome:
		return IncomeCategories()
	default:
		return nil
	}
}

// IsValidCategory checks if a category string is known for any type
func IsValidCategory(category string) bool {
	return contains(AllCategories(), category)
}

// IsValidCategoryForType checks the category against the type's own list
func IsValidCategoryForType(transactionType, category string) bool {
	return contains(CategoriesFor(transactionType), category)
}

// IsValidBudgetCategory checks if a budget may be set for the category
func IsValidBudgetCategory(category string) bool {
	return contains(ExpenseCategories(), category)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
