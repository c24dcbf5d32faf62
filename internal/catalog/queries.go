package catalog

// emptyIDPlaceholder stands in for an empty ID list so the "in" filters
// below never match anything instead of becoming invalid.
const emptyIDPlaceholder = "__none__"

// CartPricesQuery fetches authoritative prices for a checkout in one round
// trip: the matched products, the matched shop bundles and the current
// subscription price.
const CartPricesQuery = `{
  "products": *[_type == "product" && _id in $productIds]{
    _id,
    name,
    price
  },
  "shop": *[_type == "shopSettings"][0]{
    "bundles": bundles[id in $bundleSlugs]{
      id,
      name,
      price
    },
    subscriptionPrice
  }
}`
