package draft

// Input is the widget a field renders as.
type Input string

const (
	InputText     Input = "text"
	InputTel      Input = "tel"
	InputNumber   Input = "number"
	InputTextarea Input = "textarea"
	InputSelect   Input = "select"
)

// Field describes one scalar property field. Name doubles as the multipart
// key and the form input name.
type Field struct {
	Name     string
	Label    string
	Input    Input
	Required bool
	Numeric  bool
	Default  string
	Options  []string
	Section  string
}

// Sections group fields on the property form.
const (
	SectionOwner    = "Owner Details"
	SectionLocation = "Location"
	SectionSpace    = "Space Details"
	SectionPricing  = "Pricing"
	SectionAbout    = "About"
)

var (
	SpaceTypes      = []string{"Flat", "House", "PG", "Warehouse", "Office", "Shop"}
	YesNo           = []string{"No", "Yes"}
	BachelorOptions = []string{"Yes", "No", "Both"}
	FurnishingTypes = []string{"Unfurnished", "Semi-Furnished", "Fully-Furnished"}
	WashroomTypes   = []string{"Attached", "Common"}
	CoolingOptions  = []string{"AC", "Cooler", "Fan", "None"}

	Amenities  = []string{"Gym", "Swimming Pool", "Park", "Security", "Lift", "Power Backup", "Water Supply", "Club House"}
	Appliances = []string{"TV", "Refrigerator", "Washing Machine", "Microwave", "Water Heater", "Air Conditioner", "Kitchen Stove", "WiFi"}
)

// PropertyFields is every scalar property field in submission order.
var PropertyFields = []Field{
	{Name: "firstName", Label: "First Name", Input: InputText, Required: true, Section: SectionOwner},
	{Name: "lastName", Label: "Last Name", Input: InputText, Required: true, Section: SectionOwner},
	{Name: "contact", Label: "Contact Number", Input: InputTel, Required: true, Section: SectionOwner},
	{Name: "altContact", Label: "Alternate Contact", Input: InputTel, Section: SectionOwner},
	{Name: "locality", Label: "Locality", Input: InputText, Required: true, Section: SectionLocation},
	{Name: "address", Label: "Full Address", Input: InputTextarea, Required: true, Section: SectionLocation},
	{Name: "landmark", Label: "Landmark", Input: InputText, Section: SectionLocation},
	{Name: "spaceType", Label: "Space Type", Input: InputSelect, Required: true, Options: SpaceTypes, Section: SectionSpace},
	{Name: "bhk", Label: "BHK", Input: InputNumber, Numeric: true, Section: SectionSpace},
	{Name: "floor", Label: "Floor", Input: InputText, Section: SectionSpace},
	{Name: "area", Label: "Area (sq ft)", Input: InputNumber, Numeric: true, Section: SectionSpace},
	{Name: "furnishingType", Label: "Furnishing", Input: InputSelect, Options: FurnishingTypes, Section: SectionSpace},
	{Name: "washroomType", Label: "Washroom", Input: InputSelect, Options: WashroomTypes, Section: SectionSpace},
	{Name: "cooling", Label: "Cooling", Input: InputSelect, Options: CoolingOptions, Section: SectionSpace},
	{Name: "parking", Label: "Parking", Input: InputSelect, Default: "No", Options: YesNo, Section: SectionSpace},
	{Name: "petsAllowed", Label: "Pets Allowed", Input: InputSelect, Default: "No", Options: YesNo, Section: SectionSpace},
	{Name: "preference", Label: "Preference (e.g., Family, Working Professionals)", Input: InputText, Section: SectionSpace},
	{Name: "bachelors", Label: "Bachelors", Input: InputSelect, Options: BachelorOptions, Section: SectionSpace},
	{Name: "rent", Label: "Monthly Rent (₹)", Input: InputNumber, Required: true, Numeric: true, Section: SectionPricing},
	{Name: "maintenance", Label: "Maintenance (₹)", Input: InputNumber, Numeric: true, Section: SectionPricing},
	{Name: "about", Label: "About the Property", Input: InputTextarea, Section: SectionAbout},
}

var fieldIndex = func() map[string]Field {
	m := make(map[string]Field, len(PropertyFields))
	for _, f := range PropertyFields {
		m[f.Name] = f
	}
	return m
}()

// LookupField finds a property field by name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}
