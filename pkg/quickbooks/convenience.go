package quickbooks

import "context"

// Per-entity helpers for the most used entity types. Each is a one-line
// delegation to the generic operations through the entity registry; any
// entity type not covered here works the same way via Create/Read/Update/
// Delete/Void with its logical name.

func (c *Client) CreateAccount(ctx context.Context, account Entity) (Entity, error) {
	return c.Create(ctx, "account", account)
}

func (c *Client) GetAccount(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "account", id)
}

func (c *Client) UpdateAccount(ctx context.Context, account Entity) (Entity, error) {
	return c.Update(ctx, "account", account)
}

func (c *Client) CreateBill(ctx context.Context, bill Entity) (Entity, error) {
	return c.Create(ctx, "bill", bill)
}

func (c *Client) GetBill(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "bill", id)
}

func (c *Client) UpdateBill(ctx context.Context, bill Entity) (Entity, error) {
	return c.Update(ctx, "bill", bill)
}

func (c *Client) DeleteBill(ctx context.Context, idOrEntity interface{}) (Entity, error) {
	return c.Delete(ctx, "bill", idOrEntity)
}

func (c *Client) CreateCustomer(ctx context.Context, customer Entity) (Entity, error) {
	return c.Create(ctx, "customer", customer)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "customer", id)
}

func (c *Client) UpdateCustomer(ctx context.Context, customer Entity) (Entity, error) {
	return c.Update(ctx, "customer", customer)
}

func (c *Client) CreateEstimate(ctx context.Context, estimate Entity) (Entity, error) {
	return c.Create(ctx, "estimate", estimate)
}

func (c *Client) GetEstimate(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "estimate", id)
}

func (c *Client) GetEstimatePDF(ctx context.Context, id string) ([]byte, error) {
	return c.GetPDF(ctx, "estimate", id)
}

func (c *Client) CreateInvoice(ctx context.Context, invoice Entity) (Entity, error) {
	return c.Create(ctx, "invoice", invoice)
}

func (c *Client) GetInvoice(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "invoice", id)
}

func (c *Client) UpdateInvoice(ctx context.Context, invoice Entity) (Entity, error) {
	return c.Update(ctx, "invoice", invoice)
}

func (c *Client) DeleteInvoice(ctx context.Context, idOrEntity interface{}) (Entity, error) {
	return c.Delete(ctx, "invoice", idOrEntity)
}

func (c *Client) VoidInvoice(ctx context.Context, idOrEntity interface{}) (Entity, error) {
	return c.Void(ctx, "invoice", idOrEntity)
}

func (c *Client) GetInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	return c.GetPDF(ctx, "invoice", id)
}

func (c *Client) SendInvoicePDF(ctx context.Context, id, sendTo string) (Entity, error) {
	return c.SendPDF(ctx, "invoice", id, sendTo)
}

func (c *Client) CreateItem(ctx context.Context, item Entity) (Entity, error) {
	return c.Create(ctx, "item", item)
}

func (c *Client) GetItem(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "item", id)
}

func (c *Client) CreatePayment(ctx context.Context, payment Entity) (Entity, error) {
	return c.Create(ctx, "payment", payment)
}

func (c *Client) GetPayment(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "payment", id)
}

func (c *Client) VoidPayment(ctx context.Context, idOrEntity interface{}) (Entity, error) {
	return c.Void(ctx, "payment", idOrEntity)
}

func (c *Client) CreateVendor(ctx context.Context, vendor Entity) (Entity, error) {
	return c.Create(ctx, "vendor", vendor)
}

func (c *Client) GetVendor(ctx context.Context, id string) (Entity, error) {
	return c.Read(ctx, "vendor", id)
}

func (c *Client) GetCompanyInfo(ctx context.Context) (Entity, error) {
	return c.Read(ctx, "companyInfo", "")
}

func (c *Client) GetPreferences(ctx context.Context) (Entity, error) {
	return c.Read(ctx, "preferences", "")
}

func (c *Client) GetExchangeRate(ctx context.Context) (Entity, error) {
	return c.Read(ctx, "exchangerate", "")
}
