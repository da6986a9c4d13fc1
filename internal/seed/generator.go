package seed

import (
	"fmt"
	"math/rand"
	"time"
)

// generator produces the in-memory dataset before anything touches the
// database. All randomness flows through one source so runs are repeatable.
type generator struct {
	rng *rand.Rand
	now time.Time
}

func newGenerator(seed int64, now time.Time) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed)), now: now}
}

type dataset struct {
	customers    []customer
	employees    []employee
	suppliers    []supplier
	categories   []category
	authors      []author
	books        []book
	shippers     []shipper
	orders       []order
	orderItems   []orderItem
	bookAuthors  []bookAuthor
	bookCats     []bookCategory
	priceHistory []pricePoint
	interactions []interaction
}

type customer struct {
	id              int
	name            string
	email           string
	phone           string
	address         string
	segment         string
	region          string
	age             int
	gender          string
	incomeLevel     float64
	clv             float64
	accountCreated  time.Time
	contactMethod   string
	purchaseFreq    string
	seasonalPref    string
	lastPurchase    time.Time
	avgOrderValue   float64
}

type employee struct {
	id        int
	firstName string
	lastName  string
	title     string
	dept      string
	managerID *int
	hireDate  time.Time
	termDate  *time.Time
	salary    float64
	bonus     float64
	commission float64
	kpiScore  float64
	shift     string
	level     int
}

type supplier struct {
	id            int
	name          string
	contactName   string
	address       string
	rating        float64
	location      string
	contractTerms string
	relationship  int
}

type category struct {
	id         int
	name       string
	parentID   *int
	popularity float64
}

type author struct {
	id   int
	name string
}

type book struct {
	id           int
	title        string
	isbn         string
	format       string
	language     string
	price        float64
	stockLevel   int
	safetyStock  int
	reorderPoint int
	published    time.Time
	supplierID   int
}

type shipper struct {
	id          int
	name        string
	phone       string
	serviceArea string
	baseCost    float64
	rating      float64
}

type order struct {
	id         int
	orderDate  time.Time
	status     string
	shipping   string
	payment    string
	discount   float64
	tax        float64
	notes      string
	customerID int
	employeeID int
	shipperID  int
}

type orderItem struct {
	id        int
	orderID   int
	bookID    int
	quantity  int
	unitPrice float64
}

type bookAuthor struct {
	bookID   int
	authorID int
}

type bookCategory struct {
	bookID     int
	categoryID int
}

type pricePoint struct {
	id            int
	bookID        int
	price         float64
	effectiveDate time.Time
	endDate       *time.Time
	changeReason  string
}

type interaction struct {
	id            int
	customerID    int
	orderID       int
	date          time.Time
	kind          string
	channel       string
	priority      string
	status        string
	resolved      *time.Time
	satisfaction  int
	notes         string
	employeeID    int
}

var (
	firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Carlos", "Aisha", "Wei", "Priya", "Lars", "Amara", "Hiroshi", "Fatima"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Nguyen", "Kim", "Patel", "Okafor", "Tanaka", "Andersen"}

	regions          = []string{"North America", "Europe", "Asia Pacific", "South America", "Africa"}
	regionWeights    = []float64{0.4, 0.3, 0.2, 0.07, 0.03}
	segments         = []string{"Retail", "Wholesale", "VIP"}
	segmentWeights   = []float64{0.7, 0.2, 0.1}
	genders          = []string{"Male", "Female", "Other"}
	genderWeights    = []float64{0.48, 0.48, 0.04}
	contactMethods   = []string{"Email", "Phone", "Mail"}
	contactWeights   = []float64{0.6, 0.25, 0.15}
	orderStatuses    = []string{"Pending", "Processing", "Delivered", "Cancelled", "Returned"}
	orderStatusW     = []float64{0.1, 0.2, 0.6, 0.07, 0.03}
	shippingMethods  = []string{"Standard", "Express", "Overnight"}
	shippingWeights  = []float64{0.7, 0.2, 0.1}
	paymentMethods   = []string{"Credit Card", "PayPal", "Gift Card"}
	paymentWeights   = []float64{0.65, 0.3, 0.05}
	purchaseFreqs    = []string{"Weekly", "Monthly", "Quarterly", "Rarely"}
	seasonalPrefs    = []string{"Holiday", "Back to School", "Summer", "None"}
	departments      = []string{"Sales", "Customer Service", "Warehouse", "Purchasing", "Marketing"}
	shifts           = []string{"Morning", "Evening", "Night"}
	bookFormats      = []string{"Hardcover", "Paperback", "eBook", "Audiobook"}
	bookLanguages    = []string{"English", "Spanish", "German", "French", "Japanese"}
	categoryNames    = []string{"Fiction", "Non-Fiction", "Mystery", "Science Fiction", "Fantasy", "Romance", "Biography", "History", "Science", "Business", "Self-Help", "Children", "Young Adult", "Poetry", "Travel", "Cooking", "Art", "Religion", "Health", "Education"}
	interactionKinds = []string{"Complaint", "Inquiry", "Return", "Feedback"}
	channels         = []string{"Phone", "Email", "Chat", "In-Store"}
	priorities       = []string{"Low", "Medium", "High"}

	// Order volume by month. November, December, July and August peak.
	monthWeights = []float64{0.06, 0.06, 0.07, 0.07, 0.07, 0.07, 0.1, 0.1, 0.07, 0.07, 0.13, 0.13}
)

func (g *generator) build(opts Options) dataset {
	var d dataset
	d.customers = g.buildCustomers(opts.Customers)
	d.employees = g.buildEmployees(opts.Employees)
	d.suppliers = g.buildSuppliers(opts.Suppliers)
	d.categories = g.buildCategories(opts.Categories)
	d.authors = g.buildAuthors(opts.Authors)
	d.books = g.buildBooks(opts.Books, len(d.suppliers))
	d.shippers = g.buildShippers(opts.Shippers)
	d.orders = g.buildOrders(opts.Orders, len(d.customers), len(d.employees), len(d.shippers))
	d.orderItems = g.buildOrderItems(opts.OrderItems, d.orders, d.books)
	d.bookAuthors = g.buildBookAuthors(d.books, len(d.authors))
	d.bookCats = g.buildBookCategories(d.books, len(d.categories))
	d.priceHistory = g.buildPriceHistory(d.books)
	d.interactions = g.buildInteractions(opts.Interactions, d.orders, len(d.employees))
	return d
}

func (g *generator) buildCustomers(n int) []customer {
	out := make([]customer, 0, n)
	for i := 1; i <= n; i++ {
		name := g.personName()
		segment := g.choiceWeighted(segments, segmentWeights)
		created := g.dateBetween(-8*365, -30)
		clv := g.between(100, 50000)
		if segment == "VIP" {
			clv = g.between(20000, 120000)
		}
		out = append(out, customer{
			id:             i,
			name:           name,
			email:          fmt.Sprintf("customer%d@example.com", i),
			phone:          g.phone(),
			address:        fmt.Sprintf("%d Main Street", 1+g.rng.Intn(9999)),
			segment:        segment,
			region:         g.choiceWeighted(regions, regionWeights),
			age:            18 + g.rng.Intn(62),
			gender:         g.choiceWeighted(genders, genderWeights),
			incomeLevel:    g.between(20000, 220000),
			clv:            clv,
			accountCreated: created,
			contactMethod:  g.choiceWeighted(contactMethods, contactWeights),
			purchaseFreq:   g.choice(purchaseFreqs),
			seasonalPref:   g.choice(seasonalPrefs),
			lastPurchase:   g.dateBetween(-365, 0),
			avgOrderValue:  g.between(15, 400),
		})
	}
	return out
}

// buildEmployees lays out a four-level org: employee 1 is the director and
// everyone else reports to someone at the level above.
func (g *generator) buildEmployees(n int) []employee {
	out := make([]employee, 0, n)
	for i := 1; i <= n; i++ {
		level := 4
		var managerID *int
		switch {
		case i == 1:
			level = 1
		case i <= 5:
			level = 2
			m := 1
			managerID = &m
		case i <= 15:
			level = 3
			m := 2 + g.rng.Intn(4)
			managerID = &m
		default:
			m := 6 + g.rng.Intn(10)
			managerID = &m
		}
		hire := g.dateBetween(-10*365, -90)
		var term *time.Time
		if g.rng.Float64() < 0.1 {
			t := hire.AddDate(0, 0, 180+g.rng.Intn(1000))
			term = &t
		}
		out = append(out, employee{
			id:         i,
			firstName:  g.choice(firstNames),
			lastName:   g.choice(lastNames),
			title:      titleForLevel(level),
			dept:       g.choice(departments),
			managerID:  managerID,
			hireDate:   hire,
			termDate:   term,
			salary:     g.between(35000, 160000) - float64(level)*5000,
			bonus:      g.between(0, 15000),
			commission: g.between(0, 0.1),
			kpiScore:   g.between(1, 5),
			shift:      g.choice(shifts),
			level:      level,
		})
	}
	return out
}

func titleForLevel(level int) string {
	switch level {
	case 1:
		return "Director"
	case 2:
		return "Manager"
	case 3:
		return "Team Lead"
	default:
		return "Associate"
	}
}

func (g *generator) buildSuppliers(n int) []supplier {
	out := make([]supplier, 0, n)
	for i := 1; i <= n; i++ {
		location := "Domestic"
		if g.rng.Float64() < 0.3 {
			location = "International"
		}
		out = append(out, supplier{
			id:            i,
			name:          fmt.Sprintf("%s Publishing %d", g.choice(lastNames), i),
			contactName:   g.personName(),
			address:       fmt.Sprintf("%d Commerce Way", 1+g.rng.Intn(999)),
			rating:        g.between(1, 5),
			location:      location,
			contractTerms: g.choice([]string{"Net 30", "Net 60", "Net 90", "Prepaid"}),
			relationship:  1 + g.rng.Intn(20),
		})
	}
	return out
}

// buildCategories makes the first five categories roots and nests the rest
// under them.
func (g *generator) buildCategories(n int) []category {
	out := make([]category, 0, n)
	for i := 1; i <= n; i++ {
		var parentID *int
		if i > 5 {
			p := 1 + g.rng.Intn(5)
			parentID = &p
		}
		name := fmt.Sprintf("Category %d", i)
		if i <= len(categoryNames) {
			name = categoryNames[i-1]
		}
		out = append(out, category{id: i, name: name, parentID: parentID, popularity: g.between(0, 1)})
	}
	return out
}

func (g *generator) buildAuthors(n int) []author {
	out := make([]author, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, author{id: i, name: g.personName()})
	}
	return out
}

func (g *generator) buildBooks(n, supplierCount int) []book {
	out := make([]book, 0, n)
	for i := 1; i <= n; i++ {
		stock := g.rng.Intn(500)
		out = append(out, book{
			id:           i,
			title:        fmt.Sprintf("The %s of %s", g.choice([]string{"Art", "History", "Science", "Secret", "Journey", "Legacy"}), g.choice(lastNames)),
			isbn:         fmt.Sprintf("978-%09d", g.rng.Intn(1000000000)),
			format:       g.choice(bookFormats),
			language:     g.choice(bookLanguages),
			price:        g.between(5, 120),
			stockLevel:   stock,
			safetyStock:  10 + g.rng.Intn(40),
			reorderPoint: 20 + g.rng.Intn(60),
			published:    g.dateBetween(-30*365, 0),
			supplierID:   1 + g.rng.Intn(supplierCount),
		})
	}
	return out
}

func (g *generator) buildShippers(n int) []shipper {
	out := make([]shipper, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, shipper{
			id:          i,
			name:        fmt.Sprintf("Shipper %d Logistics", i),
			phone:       g.phone(),
			serviceArea: g.choice(regions),
			baseCost:    g.between(3, 40),
			rating:      g.between(1, 5),
		})
	}
	return out
}

func (g *generator) buildOrders(n, customerCount, employeeCount, shipperCount int) []order {
	out := make([]order, 0, n)
	id := 1
	for id <= n {
		month := g.monthByVolume()
		day := 1 + g.rng.Intn(28)
		year := g.now.Year() - g.rng.Intn(3)
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		customerID := 1 + g.rng.Intn(customerCount)

		// A small slice of customers places several orders the same day,
		// the pattern the fraud queries look for.
		repeat := 1
		if g.rng.Float64() < 0.02 {
			repeat = 2 + g.rng.Intn(3)
		}
		for r := 0; r < repeat && id <= n; r++ {
			notes := ""
			if repeat > 1 {
				notes = "same-day repeat order"
			}
			out = append(out, order{
				id:         id,
				orderDate:  date,
				status:     g.choiceWeighted(orderStatuses, orderStatusW),
				shipping:   g.choiceWeighted(shippingMethods, shippingWeights),
				payment:    g.choiceWeighted(paymentMethods, paymentWeights),
				discount:   g.between(0, 0.3),
				tax:        g.between(0, 0.12),
				notes:      notes,
				customerID: customerID,
				employeeID: 1 + g.rng.Intn(employeeCount),
				shipperID:  1 + g.rng.Intn(shipperCount),
			})
			id++
		}
	}
	return out
}

func (g *generator) buildOrderItems(n int, orders []order, books []book) []orderItem {
	out := make([]orderItem, 0, n)
	for i := 1; i <= n; i++ {
		b := books[g.rng.Intn(len(books))]
		out = append(out, orderItem{
			id:        i,
			orderID:   orders[g.rng.Intn(len(orders))].id,
			bookID:    b.id,
			quantity:  1 + g.rng.Intn(5),
			unitPrice: b.price,
		})
	}
	return out
}

func (g *generator) buildBookAuthors(books []book, authorCount int) []bookAuthor {
	out := make([]bookAuthor, 0, len(books))
	for _, b := range books {
		count := 1
		if g.rng.Float64() < 0.2 {
			count = 2
		}
		seen := map[int]bool{}
		for len(seen) < count {
			authorID := 1 + g.rng.Intn(authorCount)
			if seen[authorID] {
				continue
			}
			seen[authorID] = true
			out = append(out, bookAuthor{bookID: b.id, authorID: authorID})
		}
	}
	return out
}

func (g *generator) buildBookCategories(books []book, categoryCount int) []bookCategory {
	out := make([]bookCategory, 0, len(books))
	for _, b := range books {
		out = append(out, bookCategory{bookID: b.id, categoryID: 1 + g.rng.Intn(categoryCount)})
	}
	return out
}

// buildPriceHistory gives every book a current price row and some of them a
// closed-out earlier price.
func (g *generator) buildPriceHistory(books []book) []pricePoint {
	out := make([]pricePoint, 0, len(books))
	id := 1
	for _, b := range books {
		effective := g.dateBetween(-3*365, -30)
		if g.rng.Float64() < 0.4 {
			end := effective.AddDate(0, 0, 30+g.rng.Intn(300))
			out = append(out, pricePoint{
				id:            id,
				bookID:        b.id,
				price:         b.price * g.between(0.7, 1.3),
				effectiveDate: effective,
				endDate:       &end,
				changeReason:  g.choice([]string{"Promotion", "Cost Change", "Market Adjustment"}),
			})
			id++
			effective = end
		}
		out = append(out, pricePoint{
			id:            id,
			bookID:        b.id,
			price:         b.price,
			effectiveDate: effective,
			changeReason:  "Current",
		})
		id++
	}
	return out
}

func (g *generator) buildInteractions(n int, orders []order, employeeCount int) []interaction {
	out := make([]interaction, 0, n)
	for i := 1; i <= n; i++ {
		o := orders[g.rng.Intn(len(orders))]
		date := o.orderDate.AddDate(0, 0, g.rng.Intn(30))
		status := "Open"
		var resolved *time.Time
		satisfaction := 0
		if g.rng.Float64() < 0.8 {
			status = "Resolved"
			r := date.AddDate(0, 0, 1+g.rng.Intn(14))
			resolved = &r
			satisfaction = 1 + g.rng.Intn(5)
		}
		out = append(out, interaction{
			id:           i,
			customerID:   o.customerID,
			orderID:      o.id,
			date:         date,
			kind:         g.choice(interactionKinds),
			channel:      g.choice(channels),
			priority:     g.choice(priorities),
			status:       status,
			resolved:     resolved,
			satisfaction: satisfaction,
			notes:        "",
			employeeID:   1 + g.rng.Intn(employeeCount),
		})
	}
	return out
}

func (g *generator) monthByVolume() time.Month {
	return time.Month(1 + weightedIndex(g.rng, monthWeights))
}

func (g *generator) choice(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) choiceWeighted(options []string, weights []float64) string {
	return options[weightedIndex(g.rng, weights)]
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	target := rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

func (g *generator) between(low, high float64) float64 {
	return low + g.rng.Float64()*(high-low)
}

// dateBetween picks a date offset in days relative to now.
func (g *generator) dateBetween(fromDays, toDays int) time.Time {
	offset := fromDays + g.rng.Intn(toDays-fromDays+1)
	return g.now.AddDate(0, 0, offset).Truncate(24 * time.Hour)
}

func (g *generator) personName() string {
	return g.choice(firstNames) + " " + g.choice(lastNames)
}

func (g *generator) phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", 200+g.rng.Intn(800), g.rng.Intn(1000), g.rng.Intn(10000))
}
