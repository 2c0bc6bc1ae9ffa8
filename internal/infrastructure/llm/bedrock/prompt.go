package bedrock

// maxPromptText bounds the document excerpt embedded in the prompt to stay
// within the model's token limit.
const maxPromptText = 4000

func buildClassificationPrompt(text string) string {
	if len(text) > maxPromptText {
		text = text[:maxPromptText] + "..."
	}
	return promptHead + text + promptTail
}

const promptHead = `You are an expert document classifier for home loan applications. Your task is to analyze document text and classify it into one of these categories:

- Government ID (Driver's License, Passport, National ID)
- Payslip (Income statements, pay stubs, salary slips)
- Bank Statement (Account statements, transaction records)
- Employment Letter (Job verification, employment confirmation)
- Utility Bill (Electric, gas, water, internet, phone bills)
- Savings Statement (Investment accounts, savings records, retirement accounts)

<text>
`

const promptTail = `
</text>

Classification Examples:

Example 1:
Text: "DRIVER LICENSE Class C License Number: D123456789 Date of Birth: 01/15/1985 Expires: 12/31/2027 Address: 123 Main St"
Analysis: Contains license number, date of birth, expiration date, and official government format
Category: Government ID

Example 2:
Text: "Pay Period: 01/01/2024 - 01/31/2024 Employee ID: E12345 Gross Pay: $5,000.00 Federal Tax: $750.00 Net Pay: $3,800.00"
Analysis: Shows pay period, employee information, salary details, and tax deductions
Category: Payslip

Example 3:
Text: "BANK STATEMENT Account Number: ****1234 Statement Period: Jan 1 - Jan 31, 2024 Beginning Balance: $2,500.00 Ending Balance: $2,750.00"
Analysis: Contains account information, statement period, and balance details from financial institution
Category: Bank Statement

Example 4:
Text: "Employment Verification Letter John Smith has been employed with ABC Corporation since March 2020 as Senior Software Engineer Annual Salary: $75,000"
Analysis: Official employment confirmation with job title, start date, and salary information
Category: Employment Letter

Example 5:
Text: "Electric Company Monthly Bill Account: 123456789 Service Period: Jan 1-31, 2024 Amount Due: $145.67 Due Date: Feb 15, 2024"
Analysis: Utility service bill with account details, service period, and payment information
Category: Utility Bill

Example 6:
Text: "Savings Account Statement Account Type: High-Yield Savings Interest Rate: 2.5% APY Current Balance: $15,000.00 Interest Earned: $312.50"
Analysis: Savings account details with interest information and balance from financial institution
Category: Savings Statement

Instructions:
1. Carefully analyze the document text for key identifying features
2. Match patterns and terminology to the appropriate document type
3. Consider document structure, formatting, and specific terminology
4. If the document contains mixed content, classify based on the primary purpose
5. Provide a confidence score between 0.0 and 1.0
6. Include brief reasoning for your classification

Respond in JSON format:
{
    "category": "document_type",
    "confidence": 0.95,
    "reasoning": "Brief explanation of classification decision"
}

Classification:`
