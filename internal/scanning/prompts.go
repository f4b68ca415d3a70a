package scanning

// itemsPrompt is the shared prompt used by all providers to extract line items
const itemsPrompt = `You are an expert at reading receipts and extracting food and product information accurately.

Analyze this receipt image carefully and extract ALL items with their exact names as they appear on the receipt.

Requirements:
1. Use the EXACT product names from the receipt, never generic names like "Item 1"
2. For food items use the actual dish names (Adana Kebab, Lahmacun, Coca Cola 500ml)
3. Read both English and Azerbaijani text correctly
4. Extract quantity, unit price and total price for each item
5. Do not list totals, tax, service charges or payments as items

Respond ONLY in this JSON format with no additional text:

{
  "items": [
    {
      "name": "actual product name from receipt",
      "quantity": 1,
      "unit_price": 0.00,
      "total_price": 0.00
    }
  ],
  "total_amount": 0.00,
  "tax": 0.00,
  "currency": "AZN",
  "merchant": "store name",
  "date": "YYYY-MM-DD"
}

Important:
- Prices must be numbers, not strings
- If you cannot find a field, use null for that field
- Do not use markdown code blocks`

// transcribePrompt asks for a plain transcription used by the text parser
const transcribePrompt = `Read all the text in this image and write it exactly as it appears, one receipt line per output line. Keep item names, quantities and prices on the same line.`

// systemPrompt is sent as the system message to chat based providers
const systemPrompt = `You are an expert at reading and extracting information from receipts. You must carefully read all text in images and report it accurately.`
